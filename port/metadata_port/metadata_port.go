package metadata_port

import (
	"context"

	"refresh-orchestrator/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=metadata_port.go -destination=../../mocks/mock_metadata_port.go -package=mocks

type PostMetadataPort interface {
	// FetchPostMetadata returns metadata keyed by feed URL.
	FetchPostMetadata(ctx context.Context, feedURLs []string) (map[string]domain.PostMetadata, error)
}

type InteractionCountsPort interface {
	// FetchInteractionCounts returns counts keyed by entry guid.
	FetchInteractionCounts(ctx context.Context, guids []string) (map[string]domain.InteractionCounts, error)
}
