package scan

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"scanrecon/internal/domain/catalog"
	"scanrecon/internal/errs"
	"scanrecon/internal/infrastructure/persistence/sqlite/model"
	sqliterepo "scanrecon/internal/infrastructure/persistence/sqlite/repository"
	"scanrecon/internal/ports"
)

var testDBSeq atomic.Int64

type testEnv struct {
	svc       *Service
	campaigns ports.CampaignRepository
	snapshots ports.SnapshotRepository
	scans     ports.ScanRepository
}

func setupService(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:scan_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Campaign{},
		&model.CampaignSnapshot{},
		&model.ScanEvent{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	campaigns := sqliterepo.NewCampaignRepository(db)
	snapshots := sqliterepo.NewSnapshotRepository(db)
	scans := sqliterepo.NewScanRepository(db)
	return &testEnv{
		svc:       NewService(campaigns, snapshots, scans),
		campaigns: campaigns,
		snapshots: snapshots,
		scans:     scans,
	}
}

func seedCampaign(t *testing.T, env *testEnv, active bool, targets catalog.CodeSet) uint64 {
	t.Helper()
	ctx := context.Background()

	campaign, err := env.campaigns.Create(ctx, ports.Campaign{
		Name:                 "spring check",
		StartsAt:             "2026-08-01T00:00:00Z",
		EndsAt:               "2026-09-01T00:00:00Z",
		CategoryTarget:       targets.Category,
		TypeTarget:           targets.Type,
		ClassificationTarget: targets.Classification,
		Active:               active,
		CreatedAt:            "2026-08-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("seed campaign: %v", err)
	}

	if err := env.snapshots.CreateMany(ctx, []ports.CampaignSnapshot{{
		CampaignID:         campaign.CampaignID,
		SKU:                "7501001",
		Description:        "Cola 600ml",
		CategoryCode:       "01",
		TypeCode:           "01",
		ClassificationCode: "01",
	}}); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
	return campaign.CampaignID
}

func TestSubmitMatchingBaselineIsOK(t *testing.T) {
	env := setupService(t)
	campaignID := seedCampaign(t, env, true, catalog.CodeSet{Category: "01"})

	result, err := env.svc.Submit(context.Background(), SubmitInput{
		CampaignID:     campaignID,
		RawSKU:         "7501001",
		Branch:         "north",
		SubmitterEmail: "ana@store.example",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if result.Status != catalog.ScanOK {
		t.Fatalf("status = %q, want OK", result.Status)
	}
	if !result.InMaster {
		t.Fatalf("sku should be in master")
	}
	if result.Assumed.Category != "01" {
		t.Fatalf("assumed category = %q, want snapshot fallback 01", result.Assumed.Category)
	}
	if result.Event.SuggestedCategoryCode != nil {
		t.Fatalf("suggested category should be nil when not provided")
	}
}

func TestSubmitTargetMismatchNeedsReview(t *testing.T) {
	env := setupService(t)
	campaignID := seedCampaign(t, env, true, catalog.CodeSet{Category: "07"})

	result, err := env.svc.Submit(context.Background(), SubmitInput{
		CampaignID:        campaignID,
		RawSKU:            "7501001",
		Branch:            "north",
		SuggestedCategory: "7",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if result.Status != catalog.ScanNeedsReview {
		t.Fatalf("status = %q, want NEEDS_REVIEW", result.Status)
	}
	if result.Assumed.Category != "07" {
		t.Fatalf("assumed category = %q, want padded suggestion 07", result.Assumed.Category)
	}
	if result.Event.SuggestedCategoryCode == nil || *result.Event.SuggestedCategoryCode != "07" {
		t.Fatalf("suggested category = %v, want 07", result.Event.SuggestedCategoryCode)
	}
}

func TestSubmitUnknownSKURequiresAllSuggestions(t *testing.T) {
	env := setupService(t)
	campaignID := seedCampaign(t, env, true, catalog.CodeSet{})
	ctx := context.Background()

	if _, err := env.svc.Submit(ctx, SubmitInput{
		CampaignID:        campaignID,
		RawSKU:            "9999999",
		SuggestedCategory: "02",
	}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("Submit() error = %v, want validation", err)
	}

	result, err := env.svc.Submit(ctx, SubmitInput{
		CampaignID:              campaignID,
		RawSKU:                  "9999999",
		Branch:                  "south",
		SuggestedCategory:       "2",
		SuggestedType:           "1",
		SuggestedClassification: "3",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if result.Status != catalog.ScanNotInMaster {
		t.Fatalf("status = %q, want NOT_IN_MASTER", result.Status)
	}
	if result.Assumed != (catalog.CodeSet{Category: "02", Type: "01", Classification: "03"}) {
		t.Fatalf("assumed = %+v", result.Assumed)
	}
}

func TestSubmitCleansSKU(t *testing.T) {
	env := setupService(t)
	campaignID := seedCampaign(t, env, true, catalog.CodeSet{})

	result, err := env.svc.Submit(context.Background(), SubmitInput{
		CampaignID: campaignID,
		RawSKU:     "  7501001\n",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if result.Event.SKU != "7501001" {
		t.Fatalf("sku = %q, want cleaned 7501001", result.Event.SKU)
	}
}

func TestSubmitInactiveCampaignRejected(t *testing.T) {
	env := setupService(t)
	campaignID := seedCampaign(t, env, false, catalog.CodeSet{})

	if _, err := env.svc.Submit(context.Background(), SubmitInput{
		CampaignID: campaignID,
		RawSKU:     "7501001",
	}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("Submit() error = %v, want validation", err)
	}

	if _, err := env.svc.Submit(context.Background(), SubmitInput{
		CampaignID: 999,
		RawSKU:     "7501001",
	}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("Submit() unknown campaign error = %v, want validation", err)
	}
}
