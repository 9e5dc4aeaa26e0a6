package get

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.openly.dev/pointy"

	v1 "github.com/neutree-ai/obsprobe/api/v1"
	"github.com/neutree-ai/obsprobe/cmd/obsprobe-cli/app/cmd/global"
)

func newServer(t *testing.T, records []v1.DecisionRecord) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/v1/strategies":
			filtered := []v1.DecisionRecord{}

			for _, rec := range records {
				if env := r.URL.Query().Get("env"); env != "" && rec.Target.Environment != env {
					continue
				}

				filtered = append(filtered, rec)
			}

			json.NewEncoder(w).Encode(filtered) //nolint:errcheck
		case "/api/v1/strategy":
			key := r.URL.Query().Get("key")
			for _, rec := range records {
				if rec.Key == key {
					json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
						"key":         rec.Key,
						"monitorable": rec.Decision.Monitorable,
						"strategy":    rec.Decision.Strategy,
						"confidence":  rec.Decision.Confidence,
						"details":     rec.Decision.Details,
						"target":      rec.Target,
						"updated_at":  rec.UpdatedAt,
					})

					return
				}
			}

			json.NewEncoder(w).Encode(v1.NotFoundDecision()) //nolint:errcheck
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	t.Cleanup(server.Close)

	global.ServerURL = server.URL

	t.Cleanup(func() { global.ServerURL = "" })

	return server
}

func sampleRecords() []v1.DecisionRecord {
	now := time.Now()

	return []v1.DecisionRecord{
		{
			Key:    "billing",
			Target: v1.Target{URL: "http://billing:9000", Name: "billing", Environment: "staging"},
			Decision: v1.MonitoringDecision{
				Monitorable: true, Strategy: pointy.Pointer(v1.StrategyStatsD), Confidence: v1.ConfidenceMedium,
			},
			UpdatedAt: now.Add(-2 * time.Hour),
		},
		{
			Key:    "shop",
			Target: v1.Target{URL: "http://shop:8080", Name: "shop", Environment: "prod"},
			Decision: v1.MonitoringDecision{
				Monitorable: true, Strategy: pointy.Pointer(v1.StrategyPrometheus), Confidence: v1.ConfidenceHigh,
				Details: "/metrics endpoint detected",
			},
			UpdatedAt: now.Add(-5 * time.Minute),
		},
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	cmd := NewGetCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestGetCmd_List(t *testing.T) {
	newServer(t, sampleRecords())

	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "billing")
	assert.Contains(t, out, "2h")
	assert.Contains(t, out, "shop")
	assert.Contains(t, out, "5m")

	out, err = execute(t, "--env", "prod", "-o", "json")
	require.NoError(t, err)

	var records []v1.DecisionRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "shop", records[0].Key)
}

func TestGetCmd_ListEmpty(t *testing.T) {
	newServer(t, nil)

	out, err := execute(t)
	require.NoError(t, err)
	assert.Equal(t, "No strategies found\n", out)

	out, err = execute(t, "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestGetCmd_One(t *testing.T) {
	newServer(t, sampleRecords())

	out, err := execute(t, "shop")
	require.NoError(t, err)
	assert.Contains(t, out, "prometheus")
	assert.Contains(t, out, "high")
	assert.Contains(t, out, "prod")

	out, err = execute(t, "ghost", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "monitorable: false")
	assert.Contains(t, out, "No strategy found")
}

func TestGetCmd_Errors(t *testing.T) {
	global.ServerURL = ""

	_, err := execute(t)
	assert.Error(t, err)

	_, err = execute(t, "a", "b")
	assert.Error(t, err)
}
