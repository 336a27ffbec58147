package assist_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/neuroexec/execute/internal/assist"
	errorvalues "github.com/neuroexec/execute/internal/error_values"
	"github.com/neuroexec/execute/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEndpoint answers like the generation API: the produced JSON goes into
// candidates[0].content.parts[0].text.
func fakeEndpoint(t *testing.T, payload any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, ":generateContent")
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		text, err := sonic.ConfigDefault.Marshal(payload)
		require.NoError(t, err)
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": string(text)}}}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := sonic.ConfigDefault.NewEncoder(w).Encode(resp); err != nil {
			t.Error(err)
		}
	}))
}

func newClient(baseURL string) *assist.Client {
	return assist.New(assist.ClientOpts{BaseURL: baseURL, APIKey: "test-key"})
}

func TestCategorize(t *testing.T) {
	ctx := context.Background()
	refs := []assist.TaskRef{{ID: "t1", Text: "pay the invoice"}}
	t.Run("valid response", func(t *testing.T) {
		server := fakeEndpoint(t, []map[string]string{
			{"id": "t1", "priority": "Q1", "energy": "high"},
		})
		defer server.Close()
		result, err := newClient(server.URL).Categorize(ctx, refs)
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, entity.PriorityQ1, result[0].Priority)
		assert.Equal(t, entity.EnergyHigh, result[0].Energy)
	})
	t.Run("entry with unknown priority", func(t *testing.T) {
		server := fakeEndpoint(t, []map[string]string{
			{"id": "t1", "priority": "Q7", "energy": "high"},
		})
		defer server.Close()
		_, err := newClient(server.URL).Categorize(ctx, refs)
		assert.ErrorIs(t, err, errorvalues.ErrAssistUnavailable)
	})
	t.Run("endpoint error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		defer server.Close()
		_, err := newClient(server.URL).Categorize(ctx, refs)
		assert.ErrorIs(t, err, errorvalues.ErrAssistUnavailable)
	})
	t.Run("empty candidate list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := w.Write([]byte(`{"candidates": []}`)); err != nil {
				t.Error(err)
			}
		}))
		defer server.Close()
		_, err := newClient(server.URL).Categorize(ctx, refs)
		assert.ErrorIs(t, err, errorvalues.ErrAssistUnavailable)
	})
	t.Run("endpoint unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()
		_, err := newClient(server.URL).Categorize(ctx, refs)
		assert.ErrorIs(t, err, errorvalues.ErrAssistUnavailable)
	})
}

func TestDecomposeClient(t *testing.T) {
	ctx := context.Background()
	t.Run("steps returned", func(t *testing.T) {
		server := fakeEndpoint(t, map[string]any{
			"steps": []string{"open the doc", "write one line", "expand it"},
		})
		defer server.Close()
		steps, err := newClient(server.URL).Decompose(ctx, "write the essay")
		require.NoError(t, err)
		assert.Len(t, steps, 3)
	})
	t.Run("blank steps are dropped and the rest capped", func(t *testing.T) {
		server := fakeEndpoint(t, map[string]any{
			"steps": []string{"a", " ", "b", "c", "", "d", "e", "f", "g"},
		})
		defer server.Close()
		steps, err := newClient(server.URL).Decompose(ctx, "write the essay")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, steps)
	})
	t.Run("only blank steps", func(t *testing.T) {
		server := fakeEndpoint(t, map[string]any{"steps": []string{" ", ""}})
		defer server.Close()
		_, err := newClient(server.URL).Decompose(ctx, "write the essay")
		assert.ErrorIs(t, err, errorvalues.ErrAssistUnavailable)
	})
	t.Run("malformed payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resp := map[string]any{
				"candidates": []map[string]any{
					{"content": map[string]any{"parts": []map[string]any{{"text": "not json at all"}}}},
				},
			}
			if err := sonic.ConfigDefault.NewEncoder(w).Encode(resp); err != nil {
				t.Error(err)
			}
		}))
		defer server.Close()
		_, err := newClient(server.URL).Decompose(ctx, "write the essay")
		assert.ErrorIs(t, err, errorvalues.ErrAssistUnavailable)
	})
}

func TestRescueClient(t *testing.T) {
	ctx := context.Background()
	t.Run("solution returned", func(t *testing.T) {
		server := fakeEndpoint(t, map[string]any{
			"diagnosis":     "fear of failure",
			"steps":         []string{"shrink the task", "set a timer", "start"},
			"encouragement": "done beats perfect",
		})
		defer server.Close()
		solution, err := newClient(server.URL).Rescue(ctx, "file the taxes", "I keep postponing it")
		require.NoError(t, err)
		assert.Equal(t, "fear of failure", solution.Diagnosis)
		assert.Len(t, solution.Steps, 3)
	})
	t.Run("missing diagnosis", func(t *testing.T) {
		server := fakeEndpoint(t, map[string]any{"steps": []string{"x"}})
		defer server.Close()
		_, err := newClient(server.URL).Rescue(ctx, "file the taxes", "stuck")
		assert.ErrorIs(t, err, errorvalues.ErrAssistUnavailable)
	})
}

func TestIdentityBoostClient(t *testing.T) {
	ctx := context.Background()
	t.Run("boost returned", func(t *testing.T) {
		server := fakeEndpoint(t, map[string]string{"boost": "neurons that fire together wire together"})
		defer server.Close()
		boost, err := newClient(server.URL).IdentityBoost(ctx, "deep work block")
		require.NoError(t, err)
		assert.Equal(t, "neurons that fire together wire together", boost)
	})
	t.Run("empty boost", func(t *testing.T) {
		server := fakeEndpoint(t, map[string]string{"boost": ""})
		defer server.Close()
		_, err := newClient(server.URL).IdentityBoost(ctx, "deep work block")
		assert.ErrorIs(t, err, errorvalues.ErrAssistUnavailable)
	})
}
