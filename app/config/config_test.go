package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/address-locator/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, SourceFile, cfg.Dataset.Source)
	assert.Equal(t, "data/addresses.json", cfg.Dataset.Path)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, 10000, cfg.Cache.L1Size)
	assert.Equal(t, 5, cfg.Suggest.Limit)
	assert.InDelta(t, 0.8, cfg.Suggest.MinSimilarity, 1e-9)
	assert.Equal(t, 1000, cfg.Batch.MaxItems)
	assert.Equal(t, parser.DefaultWeights(), cfg.Scoring.Weights)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeConfig(t, `
app:
  port: "9090"
dataset:
  source: mongo
mongo:
  url: mongodb://mongo:27017
  collection: wards
redis:
  enabled: true
  ttl: 30m
suggest:
  limit: 3
scoring:
  weights:
    refine:
      input_district: 600
    score:
      core_word: 20000
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, SourceMongo, cfg.Dataset.Source)
	assert.Equal(t, "wards", cfg.Mongo.Collection)
	assert.Equal(t, "address_locator", cfg.Mongo.Database)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 3, cfg.Suggest.Limit)

	want := parser.DefaultWeights()
	want.Refine.InputDistrict = 600
	want.Score.CoreWord = 20000
	assert.Equal(t, want, cfg.Scoring.Weights)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "7070")
	t.Setenv("SUGGEST_LIMIT", "9")

	cfg, err := Load(writeConfig(t, "app:\n  port: \"9090\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.App.Port)
	assert.Equal(t, 9, cfg.Suggest.Limit)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"reordered weight tier", "scoring:\n  weights:\n    refine:\n      exact_ward_flag: 1\n"},
		{"unknown dataset source", "dataset:\n  source: s3\n"},
		{"empty dataset path", "dataset:\n  path: \"\"\n"},
		{"similarity out of range", "suggest:\n  min_similarity: 1.5\n"},
		{"zero workers", "batch:\n  workers: 0\n"},
		{"invalid yaml", "app: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_WeightsErrorWrapped(t *testing.T) {
	_, err := Load(writeConfig(t, "scoring:\n  weights:\n    score:\n      higher_admin_gate: 1\n"))
	assert.ErrorIs(t, err, parser.ErrInvalidWeights)
}
