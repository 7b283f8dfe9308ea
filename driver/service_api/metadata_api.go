package service_api

import (
	"context"
	"net/http"

	"refresh-orchestrator/domain"
)

type postMetadataRequest struct {
	FeedURLs []string `json:"feedUrls"`
}

type postMetadataResponse struct {
	Posts map[string]domain.PostMetadata `json:"posts"`
}

type interactionsRequest struct {
	GUIDs []string `json:"guids"`
}

type interactionsResponse struct {
	Counts map[string]domain.InteractionCounts `json:"counts"`
}

// MetadataAPIClient calls the metadata service.
type MetadataAPIClient struct {
	baseURL string
	client  *http.Client
}

func NewMetadataAPIClient(baseURL string, client *http.Client) *MetadataAPIClient {
	return &MetadataAPIClient{baseURL: baseURL, client: client}
}

// FetchPostMetadata returns metadata keyed by feed URL.
func (c *MetadataAPIClient) FetchPostMetadata(ctx context.Context, feedURLs []string) (map[string]domain.PostMetadata, error) {
	var resp postMetadataResponse
	if err := postJSON(ctx, c.client, joinURL(c.baseURL, "/v1/metadata/posts"), postMetadataRequest{FeedURLs: feedURLs}, &resp); err != nil {
		return nil, err
	}
	if resp.Posts == nil {
		resp.Posts = map[string]domain.PostMetadata{}
	}
	return resp.Posts, nil
}

// FetchInteractionCounts returns counts keyed by entry guid.
func (c *MetadataAPIClient) FetchInteractionCounts(ctx context.Context, guids []string) (map[string]domain.InteractionCounts, error) {
	var resp interactionsResponse
	if err := postJSON(ctx, c.client, joinURL(c.baseURL, "/v1/metadata/interactions"), interactionsRequest{GUIDs: guids}, &resp); err != nil {
		return nil, err
	}
	if resp.Counts == nil {
		resp.Counts = map[string]domain.InteractionCounts{}
	}
	return resp.Counts, nil
}
