package service_api

import (
	"context"
	"net/http"
	"net/url"

	"refresh-orchestrator/domain"
)

// PushAPIClient delivers batch statuses to the push endpoint.
type PushAPIClient struct {
	baseURL string
	client  *http.Client
}

func NewPushAPIClient(baseURL string, client *http.Client) *PushAPIClient {
	return &PushAPIClient{baseURL: baseURL, client: client}
}

// Push posts status to /v1/batches/{batchId}/notify.
func (c *PushAPIClient) Push(ctx context.Context, status *domain.BatchStatus) error {
	target := joinURL(c.baseURL, "/v1/batches/"+url.PathEscape(status.BatchID)+"/notify")
	return postJSON(ctx, c.client, target, status, nil)
}
