package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingConnectionStrings(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("MONGO_URI_1", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_URI")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_URI_1", "mongodb://localhost:27018")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "UserLogin", cfg.Store.LoginDatabase)
	assert.Equal(t, "Login", cfg.Store.LoginCollection)
	assert.Equal(t, "Transcripts", cfg.Store.TranscriptDatabase)
	assert.Equal(t, "UserAI", cfg.Store.TranscriptCollection)
	assert.Equal(t, "gemini", cfg.Classifier.Provider)
	assert.Equal(t, 15*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Agent.RelayTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Agent.JoinTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "0.0.0.0:8000", cfg.GetServerAddr())
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_URI_1", "mongodb://localhost:27018")
	t.Setenv("CLASSIFIER_PROVIDER", "openai")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadAgent_DoesNotRequireStores(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("MONGO_URI_1", "")
	t.Setenv("BACKEND_URL", "http://backend:9000")

	cfg, err := LoadAgent()
	require.NoError(t, err)
	assert.Equal(t, "http://backend:9000", cfg.Agent.BackendURL)
}

func TestIsRelational(t *testing.T) {
	assert.True(t, IsRelational("postgres://u:p@localhost/db"))
	assert.True(t, IsRelational("postgresql://localhost/db"))
	assert.False(t, IsRelational("mongodb+srv://cluster0.example.net"))
}
