package server

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/bastiangx/topserve/internal/logger"
	"github.com/bastiangx/topserve/pkg/config"
	"github.com/bastiangx/topserve/pkg/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

var catSentences = []string{
	"abc", "abazacy", "dbcef", "xzz", "gdbc", "abazacy",
	"xyz", "abazacy", "dbcef", "xyz", "xxx", "xzz",
}

// run feeds requests to a fresh server and returns a decoder over its output,
// positioned after the ready message.
func run(t *testing.T, cfg *config.Config, requests ...any) *msgpack.Decoder {
	t.Helper()
	trie, err := suggest.Build(catSentences)
	require.NoError(t, err)

	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range requests {
		require.NoError(t, enc.Encode(r))
	}

	srv := NewServer(trie, cfg, &in, &out)
	srv.SetLogger(logger.Discard())
	require.NoError(t, srv.Start())

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))
	assert.Equal(t, "ready", ready.Status)
	return dec
}

func TestComplete(t *testing.T) {
	dec := run(t, nil,
		Request{ID: "1", Prompt: "x"},
		Request{ID: "2", Action: ActionComplete, Prompt: "ab"},
		Request{ID: "3", Prompt: "q"},
		Request{ID: "4", Prompt: ""},
	)

	expected := []CompletionResponse{
		{ID: "1", Sentence: "xyz", Count: 2, Found: true},
		{ID: "2", Sentence: "abazacy", Count: 3, Found: true},
		{ID: "3", Sentence: "", Count: 0, Found: false},
		{ID: "4", Sentence: "abazacy", Count: 3, Found: true},
	}
	for _, want := range expected {
		var got CompletionResponse
		require.NoError(t, dec.Decode(&got))
		got.TimeTaken = 0
		assert.Equal(t, want, got)
	}
}

func TestErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MinPrompt = 1
	cfg.Server.MaxPrompt = 4

	dec := run(t, cfg,
		Request{ID: "short", Prompt: ""},
		Request{ID: "long", Prompt: "abcde"},
		Request{ID: "symbol", Prompt: "aB"},
		Request{ID: "action", Action: "reload"},
		42,
		Request{ID: "after", Prompt: "g"},
	)

	for _, id := range []string{"short", "long", "symbol", "action", ""} {
		var got CompletionError
		require.NoError(t, dec.Decode(&got))
		assert.Equal(t, id, got.ID)
		assert.Equal(t, 400, got.Code)
		assert.NotEmpty(t, got.Error)
	}

	var after CompletionResponse
	require.NoError(t, dec.Decode(&after))
	assert.Equal(t, "gdbc", after.Sentence, "server keeps serving after a bad frame")
}

func TestStatsAndHealth(t *testing.T) {
	dec := run(t, nil,
		Request{ID: "s", Action: ActionStats},
		Request{ID: "h", Action: ActionHealth},
	)

	var stats StatsResponse
	require.NoError(t, dec.Decode(&stats))
	assert.Equal(t, "s", stats.ID)
	assert.Equal(t, 12, stats.Stats["sentences"])
	assert.Equal(t, 7, stats.Stats["distinct"])

	var health StatusResponse
	require.NoError(t, dec.Decode(&health))
	assert.Equal(t, StatusResponse{ID: "h", Status: "ok"}, health)
}

func TestUpdateConfig(t *testing.T) {
	trie, err := suggest.Build(catSentences)
	require.NoError(t, err)

	srv := NewServer(trie, nil, &bytes.Buffer{}, &bytes.Buffer{})
	srv.SetLogger(logger.Discard())
	assert.Equal(t, 60, srv.currentLimits().MaxPrompt)

	cfg := config.DefaultConfig()
	cfg.Server.MaxPrompt = 3
	srv.UpdateConfig(cfg)
	assert.Equal(t, 3, srv.currentLimits().MaxPrompt)
}

func TestConfigAction(t *testing.T) {
	trie, err := suggest.Build(catSentences)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := config.DefaultConfig()
	require.NoError(t, config.SaveConfig(cfg, path))

	minPrompt, maxPrompt, negative := 1, 3, -2
	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range []Request{
		{ID: "set", Action: ActionConfig, MinPrompt: &minPrompt, MaxPrompt: &maxPrompt},
		{ID: "long", Prompt: "abcd"},
		{ID: "negative", Action: ActionConfig, MaxPrompt: &negative},
		{ID: "fits", Prompt: "abc"},
	} {
		require.NoError(t, enc.Encode(r))
	}

	srv := NewServer(trie, cfg, &in, &out)
	srv.SetLogger(logger.Discard())
	srv.SetConfigPath(path)
	require.NoError(t, srv.Start())

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))

	var applied ConfigResponse
	require.NoError(t, dec.Decode(&applied))
	assert.Equal(t, ConfigResponse{ID: "set", Status: "ok", MinPrompt: 1, MaxPrompt: 3, Reload: true}, applied)

	for _, id := range []string{"long", "negative"} {
		var got CompletionError
		require.NoError(t, dec.Decode(&got))
		assert.Equal(t, id, got.ID)
		assert.Equal(t, 400, got.Code)
	}

	var fits CompletionResponse
	require.NoError(t, dec.Decode(&fits))
	assert.Equal(t, "abc", fits.Sentence)
	assert.True(t, fits.Found)

	saved, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Server.MinPrompt)
	assert.Equal(t, 3, saved.Server.MaxPrompt, "rejected update is not saved")
	assert.Equal(t, 60, cfg.Server.MaxPrompt, "caller's config is left alone")
}
