package notify

import (
	"context"

	"scanrecon/internal/ports"
)

// NoopNotifier is used when no notify URL is configured.
type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

func (*NoopNotifier) PublishCatalogUpdate(context.Context, ports.CatalogUpdate) error {
	return nil
}
