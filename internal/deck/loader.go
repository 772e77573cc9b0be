package deck

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type FSLoader struct{}

func NewLoader() *FSLoader { return &FSLoader{} }

// Load reads and validates a deck file. An empty path yields the built-in
// deck.
func (l *FSLoader) Load(path string) (Deck, error) {
	if strings.TrimSpace(path) == "" {
		return Builtin(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Deck{}, err
	}
	d, err := Parse(b)
	if err != nil {
		return Deck{}, fmt.Errorf("load deck %s: %w", path, err)
	}
	d.Path = path
	return d, nil
}

func Parse(b []byte) (Deck, error) {
	var d Deck
	if err := yaml.Unmarshal(b, &d); err != nil {
		return d, err
	}
	applyDefaults(&d)
	if err := d.Validate(); err != nil {
		return d, err
	}
	return d, nil
}

func applyDefaults(d *Deck) {
	if d.Kind == "" {
		d.Kind = DeckKind
	}
	if d.SchemaVersion == 0 {
		d.SchemaVersion = SupportedSchemaVersion
	}
	for i := range d.Cards {
		if d.Cards[i].Title == "" {
			d.Cards[i].Title = d.Cards[i].ID
		}
	}
}

const loremIpsum = `Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua. Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat.

Duis aute irure dolor in reprehenderit in voluptate velit esse cillum dolore eu fugiat nulla pariatur. Excepteur sint occaecat cupidatat non proident, sunt in culpa qui officia deserunt mollit anim id est laborum.

Sed ut perspiciatis unde omnis iste natus error sit voluptatem accusantium doloremque laudantium, totam rem aperiam, eaque ipsa quae ab illo inventore veritatis et quasi architecto beatae vitae dicta sunt explicabo.

Nemo enim ipsam voluptatem quia voluptas sit aspernatur aut odit aut fugit, sed quia consequuntur magni dolores eos qui ratione voluptatem sequi nesciunt. Neque porro quisquam est, qui dolorem ipsum quia dolor sit amet.`

// Builtin is the example deck: eight coloured cards opening on the fourth.
func Builtin() Deck {
	colors := []struct{ id, hex string }{
		{"red", "#E5484D"},
		{"green", "#46A758"},
		{"brown", "#AD7F58"},
		{"white", "#EEEEEE"},
		{"blue", "#0090FF"},
		{"cyan", "#00A2C7"},
		{"magenta", "#D6409F"},
		{"gray", "#8B8D98"},
	}
	d := Deck{
		Kind:          DeckKind,
		SchemaVersion: SupportedSchemaVersion,
		Title:         "Example",
		InitialIndex:  3,
	}
	for _, c := range colors {
		d.Cards = append(d.Cards, Card{
			ID:     c.id,
			Title:  strings.ToUpper(c.id[:1]) + c.id[1:],
			Color:  c.hex,
			BodyMD: "# " + strings.ToUpper(c.id[:1]) + c.id[1:] + "\n\n" + loremIpsum,
		})
	}
	return d
}
