package deck

import (
	"fmt"
	"regexp"
)

const (
	DeckKind               = "deck"
	SupportedSchemaVersion = 1
)

var (
	idPattern    = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)
	colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

type Deck struct {
	Kind          string `yaml:"kind"`
	SchemaVersion int    `yaml:"schema_version"`
	Title         string `yaml:"title"`
	InitialIndex  int    `yaml:"initial_index"`
	Cards         []Card `yaml:"cards"`

	Path string `yaml:"-"`
}

type Card struct {
	ID     string `yaml:"id"`
	Title  string `yaml:"title"`
	Color  string `yaml:"color"`
	BodyMD string `yaml:"body_md"`
}

func (d Deck) Validate() error {
	if d.Kind != DeckKind {
		return fmt.Errorf("kind must be %q", DeckKind)
	}
	if d.SchemaVersion == 0 {
		return fmt.Errorf("schema_version is required")
	}
	if d.SchemaVersion > SupportedSchemaVersion {
		return fmt.Errorf("unsupported deck schema_version %d (max supported %d)", d.SchemaVersion, SupportedSchemaVersion)
	}
	if len(d.Cards) == 0 {
		return fmt.Errorf("cards must not be empty")
	}
	if d.InitialIndex < 0 || d.InitialIndex >= len(d.Cards) {
		return fmt.Errorf("initial_index %d out of range [0,%d)", d.InitialIndex, len(d.Cards))
	}
	seen := map[string]struct{}{}
	for i, c := range d.Cards {
		if !idPattern.MatchString(c.ID) {
			return fmt.Errorf("cards[%d]: invalid id %q", i, c.ID)
		}
		if _, ok := seen[c.ID]; ok {
			return fmt.Errorf("duplicate card id %q", c.ID)
		}
		seen[c.ID] = struct{}{}
		if !colorPattern.MatchString(c.Color) {
			return fmt.Errorf("cards[%d]: color must be #RRGGBB, got %q", i, c.Color)
		}
	}
	return nil
}

// Colors lists the card colors in deck order.
func (d Deck) Colors() []string {
	out := make([]string, len(d.Cards))
	for i, c := range d.Cards {
		out[i] = c.Color
	}
	return out
}
