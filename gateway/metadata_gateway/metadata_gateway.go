// Package metadata_gateway adapts the metadata service client to the
// enrichment ports.
package metadata_gateway

import (
	"context"
	"errors"

	"refresh-orchestrator/domain"
	"refresh-orchestrator/driver/service_api"
	apperrors "refresh-orchestrator/utils/errors"
)

type MetadataGateway struct {
	client *service_api.MetadataAPIClient
}

func NewMetadataGateway(client *service_api.MetadataAPIClient) *MetadataGateway {
	return &MetadataGateway{client: client}
}

func (g *MetadataGateway) FetchPostMetadata(ctx context.Context, feedURLs []string) (map[string]domain.PostMetadata, error) {
	posts, err := g.client.FetchPostMetadata(ctx, feedURLs)
	if err != nil {
		return nil, classify(err, "FetchPostMetadata", len(feedURLs))
	}
	return posts, nil
}

func (g *MetadataGateway) FetchInteractionCounts(ctx context.Context, guids []string) (map[string]domain.InteractionCounts, error) {
	counts, err := g.client.FetchInteractionCounts(ctx, guids)
	if err != nil {
		return nil, classify(err, "FetchInteractionCounts", len(guids))
	}
	return counts, nil
}

// classify maps client failures onto retryable and permanent codes. Client
// errors (4xx other than 429) are not retried.
func classify(err error, operation string, keys int) *apperrors.AppContextError {
	details := map[string]any{"keys": keys}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutContextError("metadata lookup timed out", "gateway", "MetadataGateway", operation, err, details)
	}

	var statusErr *service_api.StatusError
	if errors.As(err, &statusErr) && !statusErr.Temporary() {
		details["status_code"] = statusErr.StatusCode
		return apperrors.NewAppContextError(apperrors.CodeValidation, "metadata lookup rejected", "gateway", "MetadataGateway", operation, err, details)
	}

	return apperrors.NewExternalAPIContextError("metadata lookup failed", "gateway", "MetadataGateway", operation, err, details)
}
