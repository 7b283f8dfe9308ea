package service_api

import (
	"context"
	"net/http"

	"refresh-orchestrator/domain"
)

type refreshRequest struct {
	BatchID string           `json:"batchId"`
	Feeds   []domain.FeedRef `json:"feeds"`
}

// RefreshResponse lists the titles the worker refreshed or gave up on.
type RefreshResponse struct {
	Refreshed []string `json:"refreshed"`
	Failed    []string `json:"failed"`
}

// WorkerAPIClient calls the refresh worker.
type WorkerAPIClient struct {
	baseURL string
	client  *http.Client
}

func NewWorkerAPIClient(baseURL string, client *http.Client) *WorkerAPIClient {
	return &WorkerAPIClient{baseURL: baseURL, client: client}
}

// Refresh posts the feeds and waits until the worker has stored new entries.
func (c *WorkerAPIClient) Refresh(ctx context.Context, batchID string, feeds []domain.FeedRef) (*RefreshResponse, error) {
	var resp RefreshResponse
	err := postJSON(ctx, c.client, joinURL(c.baseURL, "/v1/refresh"), refreshRequest{
		BatchID: batchID,
		Feeds:   feeds,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
