package service_api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"refresh-orchestrator/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerAPIClient_Refresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/refresh", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body refreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "b1", body.BatchID)
		require.Len(t, body.Feeds, 1)
		assert.Equal(t, "Tech Weekly", body.Feeds[0].PostTitle)

		_, _ = w.Write([]byte(`{"refreshed":["Tech Weekly"],"failed":[]}`))
	}))
	defer server.Close()

	client := NewWorkerAPIClient(server.URL+"/", NewHTTPClient(time.Second))
	resp, err := client.Refresh(context.Background(), "b1", []domain.FeedRef{{PostTitle: "Tech Weekly", FeedURL: "https://tech.example.com/rss"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"Tech Weekly"}, resp.Refreshed)
	assert.Empty(t, resp.Failed)
}

func TestWorkerAPIClient_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "worker overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewWorkerAPIClient(server.URL, NewHTTPClient(time.Second))
	_, err := client.Refresh(context.Background(), "b1", []domain.FeedRef{})

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.True(t, statusErr.Temporary())
	assert.Contains(t, statusErr.Body, "worker overloaded")
}

func TestMetadataAPIClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/metadata/posts":
			var body postMetadataRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, []string{"https://tech.example.com/rss"}, body.FeedURLs)
			_, _ = w.Write([]byte(`{"posts":{"https://tech.example.com/rss":{"title":"Tech Weekly","image":"https://img/t.png","mediaType":"article"}}}`))
		case "/v1/metadata/interactions":
			var body interactionsRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, []string{"g1", "g2"}, body.GUIDs)
			_, _ = w.Write([]byte(`{"counts":{"g1":{"likes":3,"comments":1,"reposts":0}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewMetadataAPIClient(server.URL, NewHTTPClient(time.Second))

	posts, err := client.FetchPostMetadata(context.Background(), []string{"https://tech.example.com/rss"})
	require.NoError(t, err)
	assert.Equal(t, "Tech Weekly", posts["https://tech.example.com/rss"].Title)

	counts, err := client.FetchInteractionCounts(context.Background(), []string{"g1", "g2"})
	require.NoError(t, err)
	assert.Equal(t, domain.InteractionCounts{Likes: 3, Comments: 1}, counts["g1"])
	_, ok := counts["g2"]
	assert.False(t, ok)
}

func TestMetadataAPIClient_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewMetadataAPIClient(server.URL, NewHTTPClient(time.Second))
	counts, err := client.FetchInteractionCounts(context.Background(), []string{"g1"})

	require.NoError(t, err)
	assert.NotNil(t, counts)
	assert.Empty(t, counts)
}

func TestPushAPIClient_Push(t *testing.T) {
	received := make(chan domain.BatchStatus, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/batches/b%2F1/notify", r.URL.EscapedPath())
		var status domain.BatchStatus
		require.NoError(t, json.NewDecoder(r.Body).Decode(&status))
		received <- status
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewPushAPIClient(server.URL, NewHTTPClient(time.Second))
	err := client.Push(context.Background(), &domain.BatchStatus{BatchID: "b/1", Status: domain.StatusCompleted})

	require.NoError(t, err)
	got := <-received
	assert.Equal(t, domain.StatusCompleted, got.Status)
}

func TestPostJSON_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := NewPushAPIClient(server.URL, NewHTTPClient(time.Second))
	err := client.Push(ctx, &domain.BatchStatus{BatchID: "b1"})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
