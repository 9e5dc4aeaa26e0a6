package v1

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.openly.dev/pointy"
)

func TestConfidence_Ordering(t *testing.T) {
	assert.True(t, ConfidenceNone.Less(ConfidenceLow))
	assert.True(t, ConfidenceLow.Less(ConfidenceMedium))
	assert.True(t, ConfidenceMedium.Less(ConfidenceHigh))
	assert.False(t, ConfidenceHigh.Less(ConfidenceHigh))
}

func TestConfidence_JSON(t *testing.T) {
	data, err := json.Marshal(ConfidenceMedium)
	require.NoError(t, err)
	assert.Equal(t, `"medium"`, string(data))

	var c Confidence
	require.NoError(t, json.Unmarshal([]byte(`"HIGH"`), &c))
	assert.Equal(t, ConfidenceHigh, c)

	assert.Error(t, json.Unmarshal([]byte(`"certain"`), &c))
	assert.Error(t, json.Unmarshal([]byte(`3`), &c))

	_, err = json.Marshal(Confidence(9))
	assert.Error(t, err)
}

func TestStrategy_CloudProvider(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		expected string
	}{
		{name: "aws", strategy: StrategyAWSCloudMetrics, expected: "aws"},
		{name: "gcp", strategy: StrategyGCPCloudMetrics, expected: "gcp"},
		{name: "azure", strategy: StrategyAzureCloudMetrics, expected: "azure"},
		{name: "not a cloud strategy", strategy: StrategyStatsD, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.strategy.CloudProvider())
		})
	}

	s, ok := CloudStrategy("gcp")
	assert.True(t, ok)
	assert.Equal(t, StrategyGCPCloudMetrics, s)

	_, ok = CloudStrategy("oracle")
	assert.False(t, ok)
}

func TestMonitoringDecision_Validate(t *testing.T) {
	tests := []struct {
		name     string
		decision MonitoringDecision
		wantErr  bool
	}{
		{
			name: "monitorable with strategy",
			decision: MonitoringDecision{
				Monitorable: true,
				Strategy:    pointy.Pointer(StrategyPrometheus),
				Confidence:  ConfidenceHigh,
			},
		},
		{
			name: "unmonitorable fallback",
			decision: MonitoringDecision{
				Confidence: ConfidenceNone,
				NextSteps:  DefaultNextSteps(),
			},
		},
		{
			name: "monitorable without strategy",
			decision: MonitoringDecision{
				Monitorable: true,
				Confidence:  ConfidenceLow,
			},
			wantErr: true,
		},
		{
			name: "strategy with none confidence",
			decision: MonitoringDecision{
				Monitorable: true,
				Strategy:    pointy.Pointer(StrategyStatsD),
				Confidence:  ConfidenceNone,
			},
			wantErr: true,
		},
		{
			name: "unknown strategy",
			decision: MonitoringDecision{
				Monitorable: true,
				Strategy:    pointy.Pointer(Strategy("carrier-pigeon")),
				Confidence:  ConfidenceLow,
			},
			wantErr: true,
		},
		{
			name: "next steps on monitorable decision",
			decision: MonitoringDecision{
				Monitorable: true,
				Strategy:    pointy.Pointer(StrategyBlackboxHTTP),
				Confidence:  ConfidenceLow,
				NextSteps:   []string{"Expose /metrics"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decision.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestNotFoundDecision(t *testing.T) {
	d := NotFoundDecision()
	require.NoError(t, d.Validate())

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"monitorable":false,"strategy":null,"confidence":"none","details":"No strategy found"}`, string(data))
}

func TestOnboardRequest_Target(t *testing.T) {
	req := OnboardRequest{Type: "web", URL: "http://shop.local:8080/"}
	target := req.Target()

	assert.Equal(t, DefaultEnvironment, target.Environment)
	assert.Equal(t, "http://shop.local:8080", target.Key())

	req.Name = "shop"
	assert.Equal(t, "shop", req.Target().Key())
}
