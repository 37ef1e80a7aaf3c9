package campaign

import (
	"errors"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"scanrecon/internal/errs"
)

type definitionFile struct {
	Name                 string `toml:"name"`
	StartsAt             string `toml:"starts_at"`
	EndsAt               string `toml:"ends_at"`
	CategoryTarget       string `toml:"category_target"`
	TypeTarget           string `toml:"type_target"`
	ClassificationTarget string `toml:"classification_target"`
	Activate             bool   `toml:"activate"`
}

// LoadDefinition reads a campaign definition TOML file into a CreateInput.
func LoadDefinition(path string) (CreateInput, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return CreateInput{}, errors.New("definition file is required")
	}

	raw, err := os.ReadFile(trimmed)
	if err != nil {
		return CreateInput{}, errs.Wrapf(err, "read campaign definition %q", trimmed)
	}

	var def definitionFile
	if err := toml.Unmarshal(raw, &def); err != nil {
		return CreateInput{}, errs.Wrapf(err, "parse campaign definition %q", trimmed)
	}

	return CreateInput{
		Name:                 def.Name,
		StartsAt:             def.StartsAt,
		EndsAt:               def.EndsAt,
		CategoryTarget:       def.CategoryTarget,
		TypeTarget:           def.TypeTarget,
		ClassificationTarget: def.ClassificationTarget,
		Activate:             def.Activate,
	}, nil
}
