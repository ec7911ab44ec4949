package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"securebase-billing/internal/config"
	"securebase-billing/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyPostsJSON(t *testing.T) {
	var got model.Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewNotifierClient(&config.Notify{WebhookURL: srv.URL, Timeout: time.Second})

	err := c.Notify(context.Background(), &model.Notification{Text: "a@x.com is now pro"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com is now pro", got.Text)
}

func TestNotifyWithoutDestinationIsNoop(t *testing.T) {
	c := NewNotifierClient(&config.Notify{Timeout: time.Second})

	assert.NoError(t, c.Notify(context.Background(), &model.Notification{Text: "ignored"}))
}

func TestNotifyReportsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_token", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewNotifierClient(&config.Notify{WebhookURL: srv.URL, Timeout: time.Second})

	err := c.Notify(context.Background(), &model.Notification{Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
