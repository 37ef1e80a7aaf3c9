package masterdata

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"scanrecon/internal/bootstrap/logging"
	"scanrecon/internal/errs"
	"scanrecon/internal/ports"
)

type seedCode struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

type seedMasterRow struct {
	SKU            string `yaml:"sku"`
	Description    string `yaml:"description"`
	Category       string `yaml:"category"`
	Type           string `yaml:"type"`
	Classification string `yaml:"classification"`
}

// SeedFixture is the YAML layout of a development seed file.
type SeedFixture struct {
	Categories      []seedCode      `yaml:"categories"`
	Types           []seedCode      `yaml:"types"`
	Classifications []seedCode      `yaml:"classifications"`
	Master          []seedMasterRow `yaml:"master"`
}

// LoadSeedFile parses a YAML seed fixture from disk.
func LoadSeedFile(path string) (SeedFixture, error) {
	if path == "" {
		return SeedFixture{}, errors.New("seed file is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return SeedFixture{}, errs.Wrapf(err, "read seed file %q", path)
	}

	var fixture SeedFixture
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return SeedFixture{}, errs.Wrapf(err, "parse seed file %q", path)
	}
	return fixture, nil
}

// ApplySeed loads a fixture's dictionaries and master rows. Existing rows
// are upserted, so seeding is repeatable.
func (s *Service) ApplySeed(ctx context.Context, fixture SeedFixture) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	for kind, rows := range map[string][]seedCode{
		ports.DictionaryCategory:       fixture.Categories,
		ports.DictionaryType:           fixture.Types,
		ports.DictionaryClassification: fixture.Classifications,
	} {
		if len(rows) == 0 {
			continue
		}
		codeNames := make([]CodeName, 0, len(rows))
		for _, row := range rows {
			codeNames = append(codeNames, CodeName{Code: row.Code, Name: row.Name})
		}
		if _, err := s.UpsertDictionary(ctx, kind, codeNames); err != nil {
			return err
		}
	}

	if len(fixture.Master) > 0 {
		items := make([]MasterItem, 0, len(fixture.Master))
		for _, row := range fixture.Master {
			items = append(items, MasterItem{
				SKU:                row.SKU,
				Description:        row.Description,
				CategoryCode:       row.Category,
				TypeCode:           row.Type,
				ClassificationCode: row.Classification,
			})
		}
		if _, err := s.UpsertMaster(ctx, items); err != nil {
			return err
		}
	}

	logging.Info(ctx, "seed fixture applied",
		slog.Int("master_rows", len(fixture.Master)),
		slog.Int("categories", len(fixture.Categories)),
		slog.Int("types", len(fixture.Types)),
		slog.Int("classifications", len(fixture.Classifications)),
	)
	return nil
}
