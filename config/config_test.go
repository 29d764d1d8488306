package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultTypingInterval, cfg.Render.TypingInterval)
	assert.Equal(t, DefaultAudioOrigin, cfg.Audio.Origin)
	assert.Equal(t, DefaultAudioBucket, cfg.Audio.Bucket)
	assert.Equal(t, DefaultAudioTimeout, cfg.Audio.Timeout)
	assert.Equal(t, DefaultGraphQLTimeout, cfg.GraphQL.Timeout)
	assert.False(t, cfg.Render.DisableTyping)
}

func TestLoadFile(t *testing.T) {
	t.Run("reads values and fills the rest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "agchat.yml")
		content := `render:
  typing_interval: 5ms
  color_json: true
audio:
  bucket: voice-replies
  region: eu-west-1
graphql:
  endpoint: http://localhost:4000/graphql
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 5*time.Millisecond, cfg.Render.TypingInterval)
		assert.True(t, cfg.Render.ColorJSON)
		assert.Equal(t, "voice-replies", cfg.Audio.Bucket)
		assert.Equal(t, "eu-west-1", cfg.Audio.Region)
		assert.Equal(t, DefaultAudioOrigin, cfg.Audio.Origin)
		assert.Equal(t, "http://localhost:4000/graphql", cfg.GraphQL.Endpoint)
		assert.Equal(t, DefaultGraphQLTimeout, cfg.GraphQL.Timeout)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yml")
		require.NoError(t, os.WriteFile(path, []byte("render: [unterminated"), 0o644))

		_, err := LoadFile(path)
		assert.Error(t, err)
	})
}
