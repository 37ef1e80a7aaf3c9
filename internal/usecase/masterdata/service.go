package masterdata

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
	masters      ports.MasterRepository
	dictionaries ports.DictionaryRepository
	uow          ports.UnitOfWork
}

func NewService(
	masters ports.MasterRepository,
	dictionaries ports.DictionaryRepository,
	uow ports.UnitOfWork,
) *Service {
	return &Service{
		masters:      masters,
		dictionaries: dictionaries,
		uow:          uow,
	}
}

// MasterItem is one incoming master catalog row, pre-normalization.
type MasterItem struct {
	SKU                string
	Description        string
	CategoryCode       string
	TypeCode           string
	ClassificationCode string
}

// UpsertMaster normalizes and stores master rows in one transaction,
// replacing existing rows wholesale. Rows whose SKU cleans to empty are
// skipped. Returns the number of rows written.
func (s *Service) UpsertMaster(ctx context.Context, items []MasterItem) (int, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return 0, errs.Wrap(err, "check context")
	}
	if len(items) == 0 {
		return 0, errs.Validationf("no master rows given")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	written := 0

	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		for _, item := range items {
			sku := catalog.CleanSKU(item.SKU)
			if sku == "" {
				continue
			}
			if err := s.masters.Upsert(txCtx, ports.MasterEntry{
				SKU:                sku,
				Description:        item.Description,
				CategoryCode:       catalog.PadCode(item.CategoryCode),
				TypeCode:           catalog.PadCode(item.TypeCode),
				ClassificationCode: catalog.PadCode(item.ClassificationCode),
				UpdatedAt:          now,
			}); err != nil {
				return err
			}
			written++
		}
		return nil
	}); err != nil {
		return 0, err
	}

	logging.Info(ctx, "master rows upserted", slog.Int("rows", written))
	return written, nil
}

// CodeName is one dictionary row.
type CodeName struct {
	Code string
	Name string
}

// UpsertDictionary stores one code book's rows. Kind must be one of the
// ports dictionary kinds.
func (s *Service) UpsertDictionary(ctx context.Context, kind string, rows []CodeName) (int, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}
	switch kind {
	case ports.DictionaryCategory, ports.DictionaryType, ports.DictionaryClassification:
	default:
		return 0, errs.Validationf("unknown dictionary kind %q", kind)
	}

	written := 0
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		for _, row := range rows {
			code := catalog.PadCode(row.Code)
			if code == "" {
				continue
			}
			if err := s.dictionaries.Upsert(txCtx, ports.DictionaryEntry{
				Kind: kind,
				Code: code,
				Name: row.Name,
			}); err != nil {
				return err
			}
			written++
		}
		return nil
	}); err != nil {
		return 0, err
	}

	logging.Info(ctx, "dictionary rows upserted", slog.String("kind", kind), slog.Int("rows", written))
	return written, nil
}

func (s *Service) GetMaster(ctx context.Context, rawSKU string) (ports.MasterEntry, error) {
	if ctx == nil {
		return ports.MasterEntry{}, errors.New("context is required")
	}
	sku := catalog.CleanSKU(rawSKU)
	if sku == "" {
		return ports.MasterEntry{}, errs.Validationf("sku is required")
	}
	entry, err := s.masters.Get(ctx, sku)
	if err != nil {
		if errors.Is(err, ports.ErrMasterEntryNotFound) {
			return ports.MasterEntry{}, errs.NotFoundf("master entry %s", sku)
		}
		return ports.MasterEntry{}, err
	}
	return entry, nil
}

func (s *Service) ListMaster(ctx context.Context) ([]ports.MasterEntry, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	return s.masters.List(ctx)
}

// Dictionaries returns all three code books keyed by kind.
func (s *Service) Dictionaries(ctx context.Context) (map[string][]ports.DictionaryEntry, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	out := make(map[string][]ports.DictionaryEntry, 3)
	for _, kind := range []string{ports.DictionaryCategory, ports.DictionaryType, ports.DictionaryClassification} {
		entries, err := s.dictionaries.List(ctx, kind)
		if err != nil {
			return nil, err
		}
		out[kind] = entries
	}
	return out, nil
}
