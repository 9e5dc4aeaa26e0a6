package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/neutree-ai/obsprobe/api/v1"
)

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		dsn      string
		expected string
	}{
		{dsn: "/var/lib/obsprobe/obsprobe.db", expected: "/var/lib/obsprobe/obsprobe.db?" + sqlitePragmas},
		{dsn: "file:obsprobe.db?mode=rwc", expected: "file:obsprobe.db?mode=rwc&" + sqlitePragmas},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.expected, sqliteDSN(tt.dsn))
		})
	}
}

func TestNewSQLiteStorage_DSNWithQuery(t *testing.T) {
	s, err := NewSQLiteStorage("file:" + filepath.Join(t.TempDir(), "obsprobe.db") + "?mode=rwc")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.SaveDecision(newRecord("shop", "prod", v1.StrategyPrometheus)))

	record, err := s.GetDecision("shop")
	require.NoError(t, err)
	assert.Equal(t, "prometheus", record.Decision.StrategyName())
}

func TestNewSQLiteStorage_EmptyDSN(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.Error(t, err)
}
