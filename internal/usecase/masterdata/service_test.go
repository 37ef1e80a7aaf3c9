package masterdata

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

func setupService(t *testing.T) (*Service, ports.MasterRepository, ports.DictionaryRepository) {
	t.Helper()

	dsn := fmt.Sprintf("file:masterdata_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.MasterEntry{}, &model.DictionaryEntry{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	masters := sqliterepo.NewMasterRepository(db)
	dictionaries := sqliterepo.NewDictionaryRepository(db)
	uow := sqliteuow.NewUnitOfWork(db)
	return NewService(masters, dictionaries, uow), masters, dictionaries
}

func TestUpsertMasterNormalizesRows(t *testing.T) {
	svc, masters, _ := setupService(t)
	ctx := context.Background()

	written, err := svc.UpsertMaster(ctx, []MasterItem{
		{SKU: "7501001-xx", Description: "Cola 600ml", CategoryCode: "1", TypeCode: "01", ClassificationCode: "2"},
		{SKU: "---", Description: "bad sku"},
	})
	if err != nil {
		t.Fatalf("UpsertMaster() error = %v", err)
	}
	if written != 1 {
		t.Fatalf("written = %d, want 1", written)
	}

	entry, err := masters.Get(ctx, "7501001")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if entry.CategoryCode != "01" || entry.ClassificationCode != "02" {
		t.Fatalf("codes = %s|%s|%s, want padded", entry.CategoryCode, entry.TypeCode, entry.ClassificationCode)
	}
}

func TestUpsertMasterReplacesExistingRow(t *testing.T) {
	svc, masters, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.UpsertMaster(ctx, []MasterItem{{SKU: "7501001", Description: "old", CategoryCode: "01"}}); err != nil {
		t.Fatalf("UpsertMaster() error = %v", err)
	}
	if _, err := svc.UpsertMaster(ctx, []MasterItem{{SKU: "7501001", Description: "new", CategoryCode: "02"}}); err != nil {
		t.Fatalf("UpsertMaster() error = %v", err)
	}

	entry, err := masters.Get(ctx, "7501001")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if entry.Description != "new" || entry.CategoryCode != "02" {
		t.Fatalf("entry = %+v, want replaced row", entry)
	}
}

func TestUpsertDictionaryValidatesKind(t *testing.T) {
	svc, _, dictionaries := setupService(t)
	ctx := context.Background()

	if _, err := svc.UpsertDictionary(ctx, "flavor", []CodeName{{Code: "01", Name: "x"}}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("UpsertDictionary() error = %v, want validation", err)
	}

	written, err := svc.UpsertDictionary(ctx, ports.DictionaryCategory, []CodeName{
		{Code: "1", Name: "Beverages"},
		{Code: "", Name: "skipped"},
	})
	if err != nil {
		t.Fatalf("UpsertDictionary() error = %v", err)
	}
	if written != 1 {
		t.Fatalf("written = %d, want 1", written)
	}

	entries, err := dictionaries.List(ctx, ports.DictionaryCategory)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Code != "01" {
		t.Fatalf("entries = %+v, want padded code 01", entries)
	}
}

func TestApplySeedIsRepeatable(t *testing.T) {
	svc, masters, dictionaries := setupService(t)
	ctx := context.Background()

	fixture := SeedFixture{
		Categories: []seedCode{{Code: "01", Name: "Beverages"}},
		Master: []seedMasterRow{
			{SKU: "7501001", Description: "Cola 600ml", Category: "01", Type: "01", Classification: "01"},
		},
	}

	if err := svc.ApplySeed(ctx, fixture); err != nil {
		t.Fatalf("ApplySeed() error = %v", err)
	}
	if err := svc.ApplySeed(ctx, fixture); err != nil {
		t.Fatalf("second ApplySeed() error = %v", err)
	}

	entries, err := masters.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("master rows = %d, want 1 after repeat seed", len(entries))
	}

	cats, err := dictionaries.List(ctx, ports.DictionaryCategory)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(cats) != 1 {
		t.Fatalf("categories = %d, want 1 after repeat seed", len(cats))
	}
}

func TestExportMasterCSVIncludesHeader(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.UpsertMaster(ctx, []MasterItem{{SKU: "7501001", Description: "Cola 600ml", CategoryCode: "01"}}); err != nil {
		t.Fatalf("UpsertMaster() error = %v", err)
	}

	rows, err := svc.ExportMasterCSV(ctx)
	if err != nil {
		t.Fatalf("ExportMasterCSV() error = %v", err)
	}
	if len(rows) != 2 || rows[0][0] != "sku" || rows[1][0] != "7501001" {
		t.Fatalf("rows = %+v", rows)
	}
}
