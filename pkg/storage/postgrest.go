package storage

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	postgrest "github.com/supabase-community/postgrest-go"

	v1 "github.com/neutree-ai/obsprobe/api/v1"
)

// explicitly check that postgrestStorage implements the interfaces
var _ Storage = (*postgrestStorage)(nil)

// postgrestColumns maps filter columns onto the json columns of the decisions table.
var postgrestColumns = map[string]string{
	ColumnKey:         "key",
	ColumnEnvironment: "target->>environment",
	ColumnStrategy:    "decision->>strategy",
}

type postgrestStorage struct {
	postgrestClient *postgrest.Client
}

func NewPostgrestStorage(o Options) (Storage, error) {
	if o.AccessURL == "" {
		return nil, errors.New("postgrest access url is required")
	}

	scheme := o.Scheme
	if scheme == "" {
		scheme = "api"
	}

	var headers map[string]string

	if o.JwtSecret != "" {
		token, err := CreateServiceToken(o.JwtSecret)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create postgrest service token")
		}

		headers = map[string]string{"Authorization": "Bearer " + token}
	}

	return &postgrestStorage{
		postgrestClient: postgrest.NewClient(o.AccessURL, scheme, headers),
	}, nil
}

func applyListOption(builder *postgrest.FilterBuilder, option ListOption) error {
	for _, filter := range option.Filters {
		column, ok := postgrestColumns[filter.Column]
		if !ok {
			return errors.Wrapf(ErrUnsupportedFilter, "column %q", filter.Column)
		}

		builder.Filter(column, strings.ToLower(filter.Operator), filter.Value)
	}

	return nil
}

func (s *postgrestStorage) SaveDecision(data *v1.DecisionRecord) error {
	existing, err := s.GetDecision(data.Key)
	if err != nil && !errors.Is(err, ErrResourceNotFound) {
		return err
	}

	record := *data
	stampRecord(&record)

	if existing != nil {
		record.CreatedAt = existing.CreatedAt
	}

	if _, _, err = s.postgrestClient.From(DECISION_TABLE).Insert(record, true, "key", "", "").Execute(); err != nil {
		return errors.Wrapf(err, "failed to upsert decision %s", record.Key)
	}

	*data = record

	return nil
}

func (s *postgrestStorage) GetDecision(key string) (*v1.DecisionRecord, error) {
	var response []v1.DecisionRecord

	responseContent, _, err := s.postgrestClient.From(DECISION_TABLE).Select("*", "", false).
		Filter("key", "eq", key).Execute()
	if err != nil {
		return nil, err
	}

	if err = parseResponse(&response, responseContent); err != nil {
		return nil, err
	}

	if len(response) == 0 {
		return nil, ErrResourceNotFound
	}

	return &response[0], nil
}

func (s *postgrestStorage) DeleteDecision(key string) error {
	var response []v1.DecisionRecord

	responseContent, _, err := s.postgrestClient.From(DECISION_TABLE).Delete("representation", "").
		Filter("key", "eq", key).Execute()
	if err != nil {
		return err
	}

	if err = parseResponse(&response, responseContent); err != nil {
		return err
	}

	if len(response) == 0 {
		return ErrResourceNotFound
	}

	return nil
}

func (s *postgrestStorage) ListDecisions(option ListOption) ([]v1.DecisionRecord, error) {
	response := []v1.DecisionRecord{}

	builder := s.postgrestClient.From(DECISION_TABLE).Select("*", "", false)
	if err := applyListOption(builder, option); err != nil {
		return nil, err
	}

	responseContent, _, err := builder.Execute()
	if err != nil {
		return nil, err
	}

	if err = parseResponse(&response, responseContent); err != nil {
		return nil, err
	}

	sortRecords(response)

	return response, nil
}

func parseResponse(response interface{}, responseContent []byte) error {
	if len(responseContent) == 0 {
		return nil
	}

	return errors.Wrap(json.Unmarshal(responseContent, response), "failed to parse postgrest response")
}
