package gemini_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/docrag"
	"github.com/fwojciec/docrag/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGemini answers generate and embed calls with canned JSON and records
// the last request body.
func fakeGemini(t *testing.T, status int) (*httptest.Server, *string) {
	t.Helper()

	var lastBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		lastBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`))
			return
		}
		switch {
		case strings.HasSuffix(r.URL.Path, ":generateContent"):
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Use pip install."}]}}]}`))
		case strings.Contains(r.URL.Path, "mbedContent"):
			_, _ = w.Write([]byte(`{"embedding":{"values":[0.1,0.2,0.3]},"embeddings":[{"values":[0.1,0.2,0.3]}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &lastBody
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := gemini.NewClient(context.Background(), "", "")
	assert.Equal(t, docrag.ECONFIG, docrag.ErrorCode(err))
}

func TestLanguageModel_Complete(t *testing.T) {
	t.Parallel()

	t.Run("returns the model text", func(t *testing.T) {
		t.Parallel()

		srv, body := fakeGemini(t, http.StatusOK)
		client, err := gemini.NewClient(context.Background(), "test-key", srv.URL)
		require.NoError(t, err)

		reply, err := gemini.NewLanguageModel(client, "gemini-2.5-flash", 0.2).
			Complete(context.Background(), "What is X?")
		require.NoError(t, err)
		assert.Equal(t, "Use pip install.", reply)

		var req map[string]any
		require.NoError(t, json.Unmarshal([]byte(*body), &req))
		assert.Contains(t, *body, "What is X?")
		assert.Contains(t, *body, "answering questions about software documentation")
		assert.Contains(t, req, "generationConfig")
	})

	t.Run("returns API errors", func(t *testing.T) {
		t.Parallel()

		srv, _ := fakeGemini(t, http.StatusInternalServerError)
		client, err := gemini.NewClient(context.Background(), "test-key", srv.URL)
		require.NoError(t, err)

		_, err = gemini.NewLanguageModel(client, "gemini-2.5-flash", 0).
			Complete(context.Background(), "What is X?")
		require.Error(t, err)
	})
}

func TestLanguageModel_Config(t *testing.T) {
	t.Parallel()

	cfg := gemini.NewLanguageModel(nil, "m", 0.7).Config()
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.7, *cfg.Temperature, 1e-6)
	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, gemini.SystemInstruction, cfg.SystemInstruction.Parts[0].Text)
}

func TestEmbedder_Embed(t *testing.T) {
	t.Parallel()

	t.Run("returns the embedding values", func(t *testing.T) {
		t.Parallel()

		srv, body := fakeGemini(t, http.StatusOK)
		client, err := gemini.NewClient(context.Background(), "test-key", srv.URL)
		require.NoError(t, err)

		vec, err := gemini.NewEmbedder(client, "gemini-embedding-001").Embed(context.Background(), "hello")
		require.NoError(t, err)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
		assert.Contains(t, *body, "hello")
	})

	t.Run("returns API errors", func(t *testing.T) {
		t.Parallel()

		srv, _ := fakeGemini(t, http.StatusInternalServerError)
		client, err := gemini.NewClient(context.Background(), "test-key", srv.URL)
		require.NoError(t, err)

		_, err = gemini.NewEmbedder(client, "gemini-embedding-001").Embed(context.Background(), "hello")
		require.Error(t, err)
	})
}
