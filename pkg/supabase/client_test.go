package supabase

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Query(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/symptom_records", r.URL.Path)
		assert.Equal(t, []string{"gte.2024-01-01T00:00:00Z", "lte.2024-02-01T00:00:00Z"}, r.URL.Query()["timestamp"])
		assert.Equal(t, "eq.user-1", r.URL.Query().Get("user_id"))
		assert.Equal(t, "service", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer user-jwt", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":"a"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service")
	filter := Filter{}.
		Add("user_id", "eq.user-1").
		Add("timestamp", "gte.2024-01-01T00:00:00Z").
		Add("timestamp", "lte.2024-02-01T00:00:00Z")

	body, err := c.Query(context.Background(), "symptom_records", filter, "user-jwt")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a"}]`, string(body))
}

func TestClient_InsertSendsRepresentationHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		assert.Equal(t, "Bearer service", r.Header.Get("Authorization"))
		payload, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"mood_level":4}`, string(payload))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service")
	_, err := c.Insert(context.Background(), "symptom_records", map[string]int{"mood_level": 4}, "")
	require.NoError(t, err)
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
		_, _ = w.Write([]byte(`{"message":"JSON object requested, multiple (or no) rows returned"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service")
	_, err := c.Query(context.Background(), "symptom_records", nil, "")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotAcceptable, apiErr.StatusCode)
}

func TestClient_VerifyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"user-1","email":"a@example.com"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service")

	user, err := c.VerifyToken(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)

	_, err = c.VerifyToken(context.Background(), "bad")
	assert.Error(t, err)
}
