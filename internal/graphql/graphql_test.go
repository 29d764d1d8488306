package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/grovetools/agentchat/internal/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("posts the query and returns the body", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

			var body struct {
				Query string `json:"query"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "{ users { id } }", body.Query)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":{"users":[{"id":"1"}]}}`))
		}))
		defer srv.Close()

		out, err := NewClient(srv.URL, "secret", time.Second).Execute(ctx, "{ users { id } }")
		require.NoError(t, err)
		assert.Equal(t, `{"data":{"users":[{"id":"1"}]}}`, out)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("error status is returned with the body", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, "", time.Second).Execute(ctx, "{ a }")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
		assert.Contains(t, err.Error(), "upstream down")
		assert.Equal(t, int32(1), hits.Load(), "no automatic retry")
	})

	t.Run("empty query is rejected locally", func(t *testing.T) {
		_, err := NewClient("http://127.0.0.1:0", "", time.Second).Execute(ctx, "  \n")
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})
}

type fakeExecutor struct {
	body  string
	err   error
	calls []string
}

func (f *fakeExecutor) Execute(_ context.Context, query string) (string, error) {
	f.calls = append(f.calls, query)
	return f.body, f.err
}

func TestInvoker(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("response becomes a result event", func(t *testing.T) {
		exec := &fakeExecutor{body: `{"data":{"ok":true}}`}
		inv := NewInvoker(exec)
		inv.now = func() time.Time { return at }

		var got []chat.Event
		fire := inv.Func(ctx, func(e chat.Event) { got = append(got, e) })
		fire("{ ok }")

		require.Len(t, got, 1)
		assert.Equal(t, chat.KindAgentGraphQLResult, got[0].Kind())
		assert.Equal(t, `{"data":{"ok":true}}`, got[0].Text())
		assert.Equal(t, at, got[0].Time())
		assert.Equal(t, []string{"{ ok }"}, exec.calls)
	})

	t.Run("failure becomes a user error event", func(t *testing.T) {
		exec := &fakeExecutor{err: errors.New("connection refused")}
		event := NewInvoker(exec).Invoke(ctx, "{ ok }")

		assert.Equal(t, chat.KindUserError, event.Kind())
		assert.Equal(t, "Query failed: connection refused", event.Text())
	})

	t.Run("wired through the classifier", func(t *testing.T) {
		exec := &fakeExecutor{body: `{"data":{"n":1}}`}
		var results []chat.Event
		c := chat.NewClassifier(chat.WithQueryInvoker(
			NewInvoker(exec).Func(ctx, func(e chat.Event) { results = append(results, e) }),
		))

		query, err := chat.NewEvent(chat.KindAgentGraphQLQuery, "{ n }")
		require.NoError(t, err)

		d := c.Classify(query)
		require.NotNil(t, d.Invoke)
		assert.Empty(t, exec.calls)

		d.Invoke()
		require.Len(t, results, 1)
		assert.Equal(t, "{\n  \"data\": {\n    \"n\": 1\n  }\n}", c.Classify(results[0]).Text)
	})
}
