package decision

import (
	"context"
	"log/slog"
	"time"

	"scanrecon/internal/bootstrap/logging"
	"scanrecon/internal/domain/catalog"
	"scanrecon/internal/ports"
)

const defaultOperator = "admin"

type Service struct {
	decisions ports.DecisionRepository
	snapshots ports.SnapshotRepository
	masters   ports.MasterRepository
	uow       ports.UnitOfWork
	notifier  ports.Notifier
}

func NewService(
	decisions ports.DecisionRepository,
	snapshots ports.SnapshotRepository,
	masters ports.MasterRepository,
	uow ports.UnitOfWork,
	notifier ports.Notifier,
) *Service {
	return &Service{
		decisions: decisions,
		snapshots: snapshots,
		masters:   masters,
		uow:       uow,
		notifier:  notifier,
	}
}

func newCodes(dec ports.UpdateDecision) catalog.CodeSet {
	return catalog.CodeSet{
		Category:       dec.NewCategoryCode,
		Type:           dec.NewTypeCode,
		Classification: dec.NewClassificationCode,
	}
}

// publishBestEffort announces an applied decision; a broker outage never
// fails the workflow.
func (s *Service) publishBestEffort(ctx context.Context, dec ports.UpdateDecision, appliedAt string) {
	codes := newCodes(dec)
	err := s.notifier.PublishCatalogUpdate(ctx, ports.CatalogUpdate{
		DecisionID:         dec.DecisionID,
		CampaignID:         dec.CampaignID,
		SKU:                dec.SKU,
		CategoryCode:       codes.Category,
		TypeCode:           codes.Type,
		ClassificationCode: codes.Classification,
		AppliedAt:          appliedAt,
	})
	if err != nil {
		logging.Warn(ctx, "publish catalog update failed",
			slog.Uint64("decision_id", dec.DecisionID),
			slog.String("sku", dec.SKU),
			slog.String("error", err.Error()),
		)
	}
}

func operatorOrDefault(name string) string {
	if name == "" {
		return defaultOperator
	}
	return name
}

func nowUTCString() string {
	return time.Now().UTC().Format(time.RFC3339)
}
