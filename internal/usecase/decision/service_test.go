package decision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"scanrecon/internal/domain/catalog"
	"scanrecon/internal/errs"
	"scanrecon/internal/infrastructure/persistence/sqlite/model"
	sqliterepo "scanrecon/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "scanrecon/internal/infrastructure/persistence/sqlite/uow"
	"scanrecon/internal/ports"
)

var testDBSeq atomic.Int64

type testNotifier struct {
	updates []ports.CatalogUpdate
}

func (n *testNotifier) PublishCatalogUpdate(_ context.Context, update ports.CatalogUpdate) error {
	n.updates = append(n.updates, update)
	return nil
}

type testEnv struct {
	svc       *Service
	masters   ports.MasterRepository
	campaigns ports.CampaignRepository
	snapshots ports.SnapshotRepository
	decisions ports.DecisionRepository
	notifier  *testNotifier
}

func setupService(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:decision_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&model.MasterEntry{},
		&model.Campaign{},
		&model.CampaignSnapshot{},
		&model.ScanEvent{},
		&model.UpdateDecision{},
		&model.DictionaryEntry{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	masters := sqliterepo.NewMasterRepository(db)
	campaigns := sqliterepo.NewCampaignRepository(db)
	snapshots := sqliterepo.NewSnapshotRepository(db)
	decisions := sqliterepo.NewDecisionRepository(db)
	uow := sqliteuow.NewUnitOfWork(db)
	notifier := &testNotifier{}

	return &testEnv{
		svc:       NewService(decisions, snapshots, masters, uow, notifier),
		masters:   masters,
		campaigns: campaigns,
		snapshots: snapshots,
		decisions: decisions,
		notifier:  notifier,
	}
}

// seedCampaign creates a campaign plus one snapshotted master SKU 7501001
// with codes 01|01|01.
func seedCampaign(t *testing.T, env *testEnv) uint64 {
	t.Helper()
	ctx := context.Background()

	if err := env.masters.Upsert(ctx, ports.MasterEntry{
		SKU:                "7501001",
		Description:        "Cola 600ml",
		CategoryCode:       "01",
		TypeCode:           "01",
		ClassificationCode: "01",
		UpdatedAt:          "2026-08-01T00:00:00Z",
	}); err != nil {
		t.Fatalf("seed master: %v", err)
	}

	campaign, err := env.campaigns.Create(ctx, ports.Campaign{
		Name:      "autumn check",
		StartsAt:  "2026-08-01T00:00:00Z",
		EndsAt:    "2026-09-01T00:00:00Z",
		Active:    true,
		CreatedAt: "2026-08-01T00:00:00Z",
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

func proposal(cat, typ, cla string) catalog.CodeSet {
	return catalog.CodeSet{Category: cat, Type: typ, Classification: cla}
}

func TestDecideCreatesPendingWithSnapshotBaseline(t *testing.T) {
	env := setupService(t)
	campaignID := seedCampaign(t, env)
	ctx := context.Background()

	created, err := env.svc.Decide(ctx, DecideInput{
		CampaignID: campaignID,
		RawSKU:     "7501001",
		Proposal:   proposal("02", "01", "01"),
		Verdict:    "accept",
		DecidedBy:  "ana",
	})
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	if created.Status != string(catalog.DecisionPending) {
		t.Fatalf("status = %q, want pending", created.Status)
	}
	if created.OldCategoryCode == nil || *created.OldCategoryCode != "01" {
		t.Fatalf("old category = %v, want 01", created.OldCategoryCode)
	}
	if created.NewCategoryCode != "02" {
		t.Fatalf("new category = %q, want 02", created.NewCategoryCode)
	}
	if created.DecidedBy != "ana" {
		t.Fatalf("decided by = %q", created.DecidedBy)
	}
}

func TestDecideArchivesPreviousPending(t *testing.T) {
	env := setupService(t)
	campaignID := seedCampaign(t, env)
	ctx := context.Background()

	first, err := env.svc.Decide(ctx, DecideInput{
		CampaignID: campaignID,
		RawSKU:     "7501001",
		Proposal:   proposal("02", "01", "01"),
		Verdict:    "accept",
	})
	if err != nil {
		t.Fatalf("first Decide() error = %v", err)
	}

	second, err := env.svc.Decide(ctx, DecideInput{
		CampaignID: campaignID,
		RawSKU:     "7501001",
		Proposal:   proposal("03", "01", "01"),
		Verdict:    "accept",
	})
	if err != nil {
		t.Fatalf("second Decide() error = %v", err)
	}

	reloaded, err := env.decisions.Get(ctx, first.DecisionID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reloaded.Archived {
		t.Fatalf("first decision should be archived after second decide")
	}
	if second.Archived {
		t.Fatalf("second decision must not be archived")
	}

	notArchived := false
	pending, err := env.decisions.List(ctx, ports.DecisionFilter{
		CampaignID: campaignID,
		SKU:        "7501001",
		Status:     string(catalog.DecisionPending),
		Archived:   &notArchived,
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("non-archived pending decisions = %d, want 1", len(pending))
	}
}

func TestDecideApplyNowWritesMasterAndNotifies(t *testing.T) {
	env := setupService(t)
	campaignID := seedCampaign(t, env)
	ctx := context.Background()

	created, err := env.svc.Decide(ctx, DecideInput{
		CampaignID: campaignID,
		RawSKU:     "7501001",
		Proposal:   proposal("02", "02", "01"),
		Verdict:    "accept",
		ApplyNow:   true,
	})
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	if created.Status != string(catalog.DecisionApplied) {
		t.Fatalf("status = %q, want applied", created.Status)
	}
	if created.AppliedAt == nil {
		t.Fatalf("applied_at must be set")
	}

	entry, err := env.masters.Get(ctx, "7501001")
	if err != nil {
		t.Fatalf("master Get() error = %v", err)
	}
	if entry.CategoryCode != "02" || entry.TypeCode != "02" {
		t.Fatalf("master codes = %s|%s, want 02|02", entry.CategoryCode, entry.TypeCode)
	}
	if entry.Description != "Cola 600ml" {
		t.Fatalf("description must survive apply, got %q", entry.Description)
	}

	if len(env.notifier.updates) != 1 {
		t.Fatalf("published updates = %d, want 1", len(env.notifier.updates))
	}
	if env.notifier.updates[0].SKU != "7501001" {
		t.Fatalf("published sku = %q", env.notifier.updates[0].SKU)
	}
}

func TestDecideValidation(t *testing.T) {
	env := setupService(t)
	campaignID := seedCampaign(t, env)
	ctx := context.Background()

	cases := []struct {
		name  string
		input DecideInput
	}{
		{"missing sku", DecideInput{CampaignID: campaignID, Proposal: proposal("02", "01", "01"), Verdict: "accept"}},
		{"missing campaign", DecideInput{RawSKU: "7501001", Proposal: proposal("02", "01", "01"), Verdict: "accept"}},
		{"missing proposal", DecideInput{CampaignID: campaignID, RawSKU: "7501001", Verdict: "accept"}},
		{"bad verdict", DecideInput{CampaignID: campaignID, RawSKU: "7501001", Proposal: proposal("02", "01", "01"), Verdict: "maybe"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.svc.Decide(ctx, tc.input); !errors.Is(err, errs.ErrValidation) {
				t.Fatalf("Decide() error = %v, want validation", err)
			}
		})
	}
}

func TestApplyBatchAppliesPendingDecisions(t *testing.T) {
	env := setupService(t)
	campaignID := seedCampaign(t, env)
	ctx := context.Background()

	created, err := env.svc.Decide(ctx, DecideInput{
		CampaignID: campaignID,
		RawSKU:     "7501001",
		Proposal:   proposal("03", "01", "02"),
		Verdict:    "accept",
	})
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	applied, err := env.svc.ApplyBatch(ctx, ApplyBatchInput{
		DecisionIDs: []uint64{created.DecisionID, 9999},
		DecidedBy:   "ana",
	})
	if err != nil {
		t.Fatalf("ApplyBatch() error = %v", err)
	}
	if applied != 1 {
		t.Fatalf("applied = %d, want 1 (missing ids are skipped)", applied)
	}

	reloaded, err := env.decisions.Get(ctx, created.DecisionID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if reloaded.Status != string(catalog.DecisionApplied) {
		t.Fatalf("status = %q, want applied", reloaded.Status)
	}
	if reloaded.AppliedAt == nil {
		t.Fatalf("applied_at must be set")
	}

	entry, err := env.masters.Get(ctx, "7501001")
	if err != nil {
		t.Fatalf("master Get() error = %v", err)
	}
	if entry.CategoryCode != "03" || entry.ClassificationCode != "02" {
		t.Fatalf("master codes = %s|%s|%s", entry.CategoryCode, entry.TypeCode, entry.ClassificationCode)
	}
}

func TestUndoDeletesPendingDecision(t *testing.T) {
	env := setupService(t)
	campaignID := seedCampaign(t, env)
	ctx := context.Background()

	created, err := env.svc.Decide(ctx, DecideInput{
		CampaignID: campaignID,
		RawSKU:     "7501001",
		Proposal:   proposal("02", "01", "01"),
		Verdict:    "accept",
	})
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	if err := env.svc.Undo(ctx, created.DecisionID); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}

	if _, err := env.decisions.Get(ctx, created.DecisionID); !errors.Is(err, ports.ErrDecisionNotFound) {
		t.Fatalf("Get() after undo error = %v, want not found", err)
	}
}

func TestUndoAppliedDecisionConflicts(t *testing.T) {
	env := setupService(t)
	campaignID := seedCampaign(t, env)
	ctx := context.Background()

	created, err := env.svc.Decide(ctx, DecideInput{
		CampaignID: campaignID,
		RawSKU:     "7501001",
		Proposal:   proposal("02", "01", "01"),
		Verdict:    "accept",
		ApplyNow:   true,
	})
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	if err := env.svc.Undo(ctx, created.DecisionID); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("Undo() error = %v, want conflict", err)
	}

	if _, err := env.decisions.Get(ctx, created.DecisionID); err != nil {
		t.Fatalf("applied decision must survive undo attempt: %v", err)
	}
}

func TestUndoMissingDecisionNotFound(t *testing.T) {
	env := setupService(t)
	seedCampaign(t, env)

	if err := env.svc.Undo(context.Background(), 424242); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("Undo() error = %v, want not found", err)
	}
}

func TestRevertThenApplyRestoresBaseline(t *testing.T) {
	env := setupService(t)
	campaignID := seedCampaign(t, env)
	ctx := context.Background()

	applied, err := env.svc.Decide(ctx, DecideInput{
		CampaignID: campaignID,
		RawSKU:     "7501001",
		Proposal:   proposal("02", "02", "02"),
		Verdict:    "accept",
		ApplyNow:   true,
	})
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	compensator, err := env.svc.Revert(ctx, applied.DecisionID, "ana")
	if err != nil {
		t.Fatalf("Revert() error = %v", err)
	}

	if compensator.Status != string(catalog.DecisionPending) {
		t.Fatalf("compensator status = %q, want pending", compensator.Status)
	}
	if compensator.NewCategoryCode != "01" {
		t.Fatalf("compensator new category = %q, want baseline 01", compensator.NewCategoryCode)
	}
	if compensator.OldCategoryCode == nil || *compensator.OldCategoryCode != "02" {
		t.Fatalf("compensator old category = %v, want applied 02", compensator.OldCategoryCode)
	}

	if _, err := env.svc.ApplyBatch(ctx, ApplyBatchInput{DecisionIDs: []uint64{compensator.DecisionID}}); err != nil {
		t.Fatalf("ApplyBatch() error = %v", err)
	}

	entry, err := env.masters.Get(ctx, "7501001")
	if err != nil {
		t.Fatalf("master Get() error = %v", err)
	}
	if entry.CategoryCode != "01" || entry.TypeCode != "01" || entry.ClassificationCode != "01" {
		t.Fatalf("master codes after revert apply = %s|%s|%s, want 01|01|01",
			entry.CategoryCode, entry.TypeCode, entry.ClassificationCode)
	}
}

func TestRevertPendingDecisionConflicts(t *testing.T) {
	env := setupService(t)
	campaignID := seedCampaign(t, env)
	ctx := context.Background()

	created, err := env.svc.Decide(ctx, DecideInput{
		CampaignID: campaignID,
		RawSKU:     "7501001",
		Proposal:   proposal("02", "01", "01"),
		Verdict:    "accept",
	})
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	if _, err := env.svc.Revert(ctx, created.DecisionID, ""); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("Revert() error = %v, want conflict", err)
	}
}

func TestArchiveTogglesFlag(t *testing.T) {
	env := setupService(t)
	campaignID := seedCampaign(t, env)
	ctx := context.Background()

	created, err := env.svc.Decide(ctx, DecideInput{
		CampaignID: campaignID,
		RawSKU:     "7501001",
		Proposal:   proposal("02", "01", "01"),
		Verdict:    "reject",
	})
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	changed, err := env.svc.Archive(ctx, ArchiveInput{DecisionIDs: []uint64{created.DecisionID}, Archived: true})
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if changed != 1 {
		t.Fatalf("changed = %d, want 1", changed)
	}

	reloaded, err := env.decisions.Get(ctx, created.DecisionID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reloaded.Archived || reloaded.ArchivedAt == nil {
		t.Fatalf("decision should be archived with a timestamp")
	}

	if _, err := env.svc.Archive(ctx, ArchiveInput{DecisionIDs: []uint64{created.DecisionID}, Archived: false}); err != nil {
		t.Fatalf("unarchive error = %v", err)
	}
	reloaded, err = env.decisions.Get(ctx, created.DecisionID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if reloaded.Archived {
		t.Fatalf("decision should be unarchived")
	}
}

func TestExportFieldTXTSkipsUnchangedAndEmpty(t *testing.T) {
	env := setupService(t)
	campaignID := seedCampaign(t, env)
	ctx := context.Background()

	// Changed category: exported.
	if _, err := env.svc.Decide(ctx, DecideInput{
		CampaignID: campaignID,
		RawSKU:     "7501001",
		Proposal:   proposal("05", "01", "01"),
		Verdict:    "accept",
		ApplyNow:   true,
	}); err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	body, err := env.svc.ExportFieldTXT(ctx, FieldExportInput{CampaignID: campaignID, Field: "category"})
	if err != nil {
		t.Fatalf("ExportFieldTXT() error = %v", err)
	}
	if body != "7501001\t05\n" {
		t.Fatalf("category export = %q", body)
	}

	// Type is unchanged (01 -> 01): nothing exported.
	body, err = env.svc.ExportFieldTXT(ctx, FieldExportInput{CampaignID: campaignID, Field: "type"})
	if err != nil {
		t.Fatalf("ExportFieldTXT() error = %v", err)
	}
	if body != "" {
		t.Fatalf("type export = %q, want empty", body)
	}

	if _, err := env.svc.ExportFieldTXT(ctx, FieldExportInput{CampaignID: campaignID, Field: "flavor"}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("bad field error = %v, want validation", err)
	}
}

func TestExportCSVHasHeaderAndRows(t *testing.T) {
	env := setupService(t)
	campaignID := seedCampaign(t, env)
	ctx := context.Background()

	if _, err := env.svc.Decide(ctx, DecideInput{
		CampaignID: campaignID,
		RawSKU:     "7501001",
		Proposal:   proposal("02", "01", "01"),
		Verdict:    "accept",
	}); err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	rows, err := env.svc.ExportCSV(ctx, campaignID)
	if err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(rows))
	}
	if !strings.Contains(strings.Join(rows[0], ","), "decision_id") {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][1] != "7501001" {
		t.Fatalf("sku cell = %q", rows[1][1])
	}
}
