package storage

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	v1 "github.com/neutree-ai/obsprobe/api/v1"
)

const (
	DECISION_TABLE = "monitoring_decisions"
)

const (
	TypePostgrest = "postgrest"
	TypeSQLite    = "sqlite"
	TypeMemory    = "memory"
)

// Columns a ListOption can filter on. Every backend maps them onto its own layout.
const (
	ColumnKey         = "key"
	ColumnEnvironment = "environment"
	ColumnStrategy    = "strategy"
)

var (
	ErrResourceNotFound  = errors.New("resource not found")
	ErrUnsupportedFilter = errors.New("unsupported filter")
)

type Storage interface {
	// SaveDecision inserts the record or overwrites the one stored under the same key.
	// The CreatedAt of an existing record is kept.
	SaveDecision(data *v1.DecisionRecord) error
	// GetDecision returns ErrResourceNotFound when no record is stored under key.
	GetDecision(key string) (*v1.DecisionRecord, error)
	DeleteDecision(key string) error
	ListDecisions(option ListOption) ([]v1.DecisionRecord, error)
}

type Options struct {
	Type string

	// postgrest
	AccessURL string
	Scheme    string
	JwtSecret string

	// sqlite
	DSN string
}

type Filter struct {
	Column   string
	Operator string
	Value    string
}

type ListOption struct {
	Filters []Filter
}

func New(o Options) (Storage, error) {
	switch o.Type {
	case TypePostgrest:
		return NewPostgrestStorage(o)
	case TypeSQLite:
		s, err := NewSQLiteStorage(o.DSN)
		if err != nil {
			return nil, err
		}

		return s, nil
	case TypeMemory, "":
		return NewMemoryStorage(), nil
	default:
		return nil, errors.Errorf("unknown storage type %q", o.Type)
	}
}

func recordField(record *v1.DecisionRecord, column string) (string, error) {
	switch column {
	case ColumnKey:
		return record.Key, nil
	case ColumnEnvironment:
		return record.Target.Environment, nil
	case ColumnStrategy:
		return record.Decision.StrategyName(), nil
	default:
		return "", errors.Wrapf(ErrUnsupportedFilter, "column %q", column)
	}
}

// matchRecord evaluates the filters in memory. Only eq and neq are understood.
func matchRecord(record *v1.DecisionRecord, option ListOption) (bool, error) {
	for _, filter := range option.Filters {
		value, err := recordField(record, filter.Column)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(filter.Operator) {
		case "eq":
			if value != filter.Value {
				return false, nil
			}
		case "neq":
			if value == filter.Value {
				return false, nil
			}
		default:
			return false, errors.Wrapf(ErrUnsupportedFilter, "operator %q", filter.Operator)
		}
	}

	return true, nil
}

func sortRecords(records []v1.DecisionRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Key < records[j].Key
	})
}
