package campaign

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"scanrecon/internal/bootstrap/logging"
	"scanrecon/internal/domain/catalog"
	"scanrecon/internal/errs"
	"scanrecon/internal/ports"
)

type Service struct {
	campaigns ports.CampaignRepository
	masters   ports.MasterRepository
	snapshots ports.SnapshotRepository
	uow       ports.UnitOfWork
}

func NewService(
	campaigns ports.CampaignRepository,
	masters ports.MasterRepository,
	snapshots ports.SnapshotRepository,
	uow ports.UnitOfWork,
) *Service {
	return &Service{
		campaigns: campaigns,
		masters:   masters,
		snapshots: snapshots,
		uow:       uow,
	}
}

type CreateInput struct {
	Name                 string
	StartsAt             string
	EndsAt               string
	CategoryTarget       string
	TypeTarget           string
	ClassificationTarget string
	Activate             bool
}

// Create stores the campaign and snapshots every master entry's codes as the
// immutable baseline for the campaign's lifetime.
func (s *Service) Create(ctx context.Context, input CreateInput) (ports.Campaign, error) {
	if ctx == nil {
		return ports.Campaign{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.Campaign{}, errs.Wrap(err, "check context")
	}
	if input.Name == "" || input.StartsAt == "" || input.EndsAt == "" {
		return ports.Campaign{}, errs.Validationf("name, starts_at and ends_at are required")
	}

	now := nowUTCString()
	var created ports.Campaign

	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if input.Activate {
			if err := s.campaigns.DeactivateAll(txCtx); err != nil {
				return err
			}
		}

		campaign, err := s.campaigns.Create(txCtx, ports.Campaign{
			Name:                 input.Name,
			StartsAt:             input.StartsAt,
			EndsAt:               input.EndsAt,
			CategoryTarget:       catalog.PadCode(input.CategoryTarget),
			TypeTarget:           catalog.PadCode(input.TypeTarget),
			ClassificationTarget: catalog.PadCode(input.ClassificationTarget),
			Active:               input.Activate,
			CreatedAt:            now,
		})
		if err != nil {
			return err
		}

		entries, err := s.masters.List(txCtx)
		if err != nil {
			return err
		}

		snapshots := make([]ports.CampaignSnapshot, 0, len(entries))
		for _, entry := range entries {
			snapshots = append(snapshots, ports.CampaignSnapshot{
				CampaignID:         campaign.CampaignID,
				SKU:                entry.SKU,
				Description:        entry.Description,
				CategoryCode:       entry.CategoryCode,
				TypeCode:           entry.TypeCode,
				ClassificationCode: entry.ClassificationCode,
			})
		}
		if err := s.snapshots.CreateMany(txCtx, snapshots); err != nil {
			return err
		}

		created = campaign
		return nil
	}); err != nil {
		return ports.Campaign{}, err
	}

	logging.Info(ctx, "campaign created",
		slog.Uint64("campaign_id", created.CampaignID),
		slog.String("name", created.Name),
		slog.Bool("active", created.Active),
	)
	return created, nil
}

// Activate makes one campaign the single active campaign, clearing every
// other active flag first.
func (s *Service) Activate(ctx context.Context, campaignID uint64) (ports.Campaign, error) {
	if ctx == nil {
		return ports.Campaign{}, errors.New("context is required")
	}
	if campaignID == 0 {
		return ports.Campaign{}, errs.Validationf("campaign id is required")
	}

	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.campaigns.Get(txCtx, campaignID); err != nil {
			if errors.Is(err, ports.ErrCampaignNotFound) {
				return errs.NotFoundf("campaign %d", campaignID)
			}
			return err
		}
		if err := s.campaigns.DeactivateAll(txCtx); err != nil {
			return err
		}
		return s.campaigns.SetActive(txCtx, campaignID)
	}); err != nil {
		return ports.Campaign{}, err
	}

	return s.campaigns.Get(ctx, campaignID)
}

func (s *Service) List(ctx context.Context) ([]ports.Campaign, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	return s.campaigns.List(ctx)
}

func (s *Service) Get(ctx context.Context, campaignID uint64) (ports.Campaign, error) {
	if ctx == nil {
		return ports.Campaign{}, errors.New("context is required")
	}
	campaign, err := s.campaigns.Get(ctx, campaignID)
	if err != nil {
		if errors.Is(err, ports.ErrCampaignNotFound) {
			return ports.Campaign{}, errs.NotFoundf("campaign %d", campaignID)
		}
		return ports.Campaign{}, err
	}
	return campaign, nil
}

func nowUTCString() string {
	return time.Now().UTC().Format(time.RFC3339)
}
