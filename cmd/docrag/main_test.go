package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/docrag"
	main "github.com/fwojciec/docrag/cmd/docrag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires a command", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), nil, stdout, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		assert.Contains(t, stdout.String(), "index")
	})

	t.Run("prints help", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		for _, cmd := range []string{"index", "ask", "docs", "serve", "config"} {
			assert.Contains(t, stdout.String(), cmd)
		}
	})

	t.Run("prints the effective configuration", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "vector_store:\n  index_path: /tmp/docs-index\nopenai:\n  api_key: sk-secret\n")
		stdout := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"--config", path, "config"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "index_path: /tmp/docs-index")
		assert.Contains(t, stdout.String(), "chunk_size: 1000")
		assert.NotContains(t, stdout.String(), "sk-secret")
	})

	t.Run("rejects an invalid configuration", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "document:\n  chunk_size: 100\n  chunk_overlap: 100\n")

		err := main.NewMain().Run(context.Background(), []string{"--config", path, "config"}, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Equal(t, docrag.ECONFIG, docrag.ErrorCode(err))
	})

	t.Run("rejects an unknown log level", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "")

		err := main.NewMain().Run(context.Background(), []string{"--config", path, "--log-level", "loud", "config"}, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Equal(t, docrag.ECONFIG, docrag.ErrorCode(err))
	})

	t.Run("index requires seed URLs", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "url_patterns:\n  accepted: [\"https://example.com/*\"]\n")

		err := main.NewMain().Run(context.Background(), []string{"--config", path, "index"}, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Equal(t, docrag.ECONFIG, docrag.ErrorCode(err))
	})

	t.Run("docs reports a missing index", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeConfig(t, fmt.Sprintf("vector_store:\n  index_path: %s\n", filepath.Join(dir, "index")))
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"--config", path, "docs"}, &bytes.Buffer{}, stderr)

		assert.Equal(t, docrag.ENOINDEX, docrag.ErrorCode(err))
		assert.Contains(t, stderr.String(), "docrag index")
	})
}

// TestMain_IndexAndAsk crawls a local site over plain HTTP, indexes it with
// a fake OpenAI endpoint and answers a question from the saved index.
func TestMain_IndexAndAsk(t *testing.T) {
	t.Parallel()

	site := newDocSite(t)
	api := newFakeOpenAI(t)
	dir := t.TempDir()
	path := writeConfig(t, fmt.Sprintf(`urls:
  - %[1]s/docs/
url_patterns:
  accepted:
    - "%[1]s/docs/*"
  blacklisted:
    - "*/docs/legacy*"
crawler:
  renderer: http
  delay: 0s
vector_store:
  index_path: %[2]s
openai:
  api_key: sk-test
  base_url: %[3]s
`, site.URL, filepath.Join(dir, "index"), api.URL+"/v1"))

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := main.NewMain().Run(context.Background(), []string{"--config", path, "index", "--no-progress"}, stdout, stderr)
	require.NoError(t, err, stderr.String())
	assert.Contains(t, stdout.String(), "Indexed 3 pages")
	assert.NotContains(t, stdout.String(), "legacy")

	stdout.Reset()
	err = main.NewMain().Run(context.Background(), []string{"--config", path, "docs"}, stdout, stderr)
	require.NoError(t, err, stderr.String())
	assert.Contains(t, stdout.String(), "3 total")
	assert.Contains(t, stdout.String(), site.URL+"/docs/install")

	stdout.Reset()
	err = main.NewMain().Run(context.Background(), []string{"--config", path, "ask", "How", "do", "I", "install?"}, stdout, stderr)
	require.NoError(t, err, stderr.String())
	assert.Contains(t, stdout.String(), "Q: How do I install?")
	assert.Contains(t, stdout.String(), "A: Run make install.")
	assert.Contains(t, stdout.String(), "Sources:\n- "+site.URL+"/docs/install\n")
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newDocSite(t *testing.T) *httptest.Server {
	t.Helper()

	page := func(title, body string) string {
		return `<html><head><title>` + title + `</title></head><body>
<nav><a href="/docs/">Home</a> <a href="/docs/install">Install</a> <a href="/docs/configure">Configure</a> <a href="/docs/legacy">Legacy</a></nav>
<main><h1>` + title + `</h1><p>` + body + `</p></main>
</body></html>`
	}
	pages := map[string]string{
		"/docs/":          page("Overview", "Welcome to the tool documentation."),
		"/docs/install":   page("Install", "Run make install to install the tool."),
		"/docs/configure": page("Configure", "Edit the file to configure the tool."),
		"/docs/legacy":    page("Legacy", "Old install notes."),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newFakeOpenAI embeds text as keyword counts and always gives the same
// answer.
func newFakeOpenAI(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/embeddings":
			var req struct {
				Input []string `json:"input"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Input) != 1 {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			text := strings.ToLower(req.Input[0])
			vec := []float32{
				float32(strings.Count(text, "install")),
				float32(strings.Count(text, "configure")),
				1,
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"object": "list",
				"model":  "text-embedding-3-small",
				"data":   []any{map[string]any{"object": "embedding", "index": 0, "embedding": vec}},
			})
		case "/v1/chat/completions":
			_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"gpt-4","choices":[{"index":0,"message":{"role":"assistant","content":"Run make install."},"finish_reason":"stop"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}
