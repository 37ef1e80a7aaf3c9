package campaign

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"scanrecon/internal/errs"
	"scanrecon/internal/infrastructure/persistence/sqlite/model"
	sqliterepo "scanrecon/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "scanrecon/internal/infrastructure/persistence/sqlite/uow"
	"scanrecon/internal/ports"
)

var testDBSeq atomic.Int64

type testEnv struct {
	svc       *Service
	campaigns ports.CampaignRepository
	masters   ports.MasterRepository
	snapshots ports.SnapshotRepository
}

func setupService(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:campaign_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&model.MasterEntry{},
		&model.Campaign{},
		&model.CampaignSnapshot{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	campaigns := sqliterepo.NewCampaignRepository(db)
	masters := sqliterepo.NewMasterRepository(db)
	snapshots := sqliterepo.NewSnapshotRepository(db)
	uow := sqliteuow.NewUnitOfWork(db)
	return &testEnv{
		svc:       NewService(campaigns, masters, snapshots, uow),
		campaigns: campaigns,
		masters:   masters,
		snapshots: snapshots,
	}
}

func seedMaster(t *testing.T, env *testEnv, skus ...string) {
	t.Helper()
	for _, sku := range skus {
		if err := env.masters.Upsert(context.Background(), ports.MasterEntry{
			SKU:                sku,
			Description:        "item " + sku,
			CategoryCode:       "01",
			TypeCode:           "01",
			ClassificationCode: "01",
			UpdatedAt:          "2026-08-01T00:00:00Z",
		}); err != nil {
			t.Fatalf("seed master %s: %v", sku, err)
		}
	}
}

func TestCreateSnapshotsWholeMaster(t *testing.T) {
	env := setupService(t)
	seedMaster(t, env, "7501001", "7501002", "7501003")
	ctx := context.Background()

	created, err := env.svc.Create(ctx, CreateInput{
		Name:     "autumn check",
		StartsAt: "2026-08-01T00:00:00Z",
		EndsAt:   "2026-09-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	snapshots, err := env.snapshots.ListByCampaign(ctx, created.CampaignID)
	if err != nil {
		t.Fatalf("ListByCampaign() error = %v", err)
	}
	if len(snapshots) != 3 {
		t.Fatalf("snapshots = %d, want 3", len(snapshots))
	}
	for _, snap := range snapshots {
		if snap.CategoryCode != "01" {
			t.Fatalf("snapshot %s category = %q", snap.SKU, snap.CategoryCode)
		}
	}
}

func TestCreateSnapshotIsImmutableBaseline(t *testing.T) {
	env := setupService(t)
	seedMaster(t, env, "7501001")
	ctx := context.Background()

	created, err := env.svc.Create(ctx, CreateInput{
		Name:     "baseline check",
		StartsAt: "2026-08-01T00:00:00Z",
		EndsAt:   "2026-09-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Later master edits must not leak into the snapshot.
	if err := env.masters.Upsert(ctx, ports.MasterEntry{
		SKU:                "7501001",
		Description:        "item 7501001",
		CategoryCode:       "09",
		TypeCode:           "09",
		ClassificationCode: "09",
		UpdatedAt:          "2026-08-15T00:00:00Z",
	}); err != nil {
		t.Fatalf("update master: %v", err)
	}

	snap, err := env.snapshots.Get(ctx, created.CampaignID, "7501001")
	if err != nil {
		t.Fatalf("snapshot Get() error = %v", err)
	}
	if snap.CategoryCode != "01" {
		t.Fatalf("snapshot category = %q, want original 01", snap.CategoryCode)
	}
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	env := setupService(t)

	if _, err := env.svc.Create(context.Background(), CreateInput{Name: "no dates"}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("Create() error = %v, want validation", err)
	}
}

func TestActivateClearsOtherActiveFlags(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	first, err := env.svc.Create(ctx, CreateInput{
		Name: "first", StartsAt: "2026-08-01T00:00:00Z", EndsAt: "2026-09-01T00:00:00Z", Activate: true,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := env.svc.Create(ctx, CreateInput{
		Name: "second", StartsAt: "2026-09-01T00:00:00Z", EndsAt: "2026-10-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := env.svc.Activate(ctx, second.CampaignID); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}

	reloadedFirst, err := env.campaigns.Get(ctx, first.CampaignID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if reloadedFirst.Active {
		t.Fatalf("first campaign must be deactivated")
	}

	active, ok, err := env.campaigns.Active(ctx)
	if err != nil {
		t.Fatalf("Active() error = %v", err)
	}
	if !ok || active.CampaignID != second.CampaignID {
		t.Fatalf("active campaign = %+v, want %d", active, second.CampaignID)
	}
}

func TestCreateWithActivateDeactivatesPrevious(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	first, err := env.svc.Create(ctx, CreateInput{
		Name: "first", StartsAt: "2026-08-01T00:00:00Z", EndsAt: "2026-09-01T00:00:00Z", Activate: true,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := env.svc.Create(ctx, CreateInput{
		Name: "second", StartsAt: "2026-09-01T00:00:00Z", EndsAt: "2026-10-01T00:00:00Z", Activate: true,
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	reloaded, err := env.campaigns.Get(ctx, first.CampaignID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if reloaded.Active {
		t.Fatalf("only one campaign may be active")
	}
}

func TestActivateUnknownCampaignNotFound(t *testing.T) {
	env := setupService(t)

	if _, err := env.svc.Activate(context.Background(), 424242); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("Activate() error = %v, want not found", err)
	}
}

func TestCreatePadsTargets(t *testing.T) {
	env := setupService(t)

	created, err := env.svc.Create(context.Background(), CreateInput{
		Name:           "padded",
		StartsAt:       "2026-08-01T00:00:00Z",
		EndsAt:         "2026-09-01T00:00:00Z",
		CategoryTarget: "7",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.CategoryTarget != "07" {
		t.Fatalf("category target = %q, want 07", created.CategoryTarget)
	}
}
