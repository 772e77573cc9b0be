package deck

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinDeckIsValid(t *testing.T) {
	d := Builtin()
	if err := d.Validate(); err != nil {
		t.Fatalf("builtin deck invalid: %v", err)
	}
	if len(d.Cards) != 8 || d.InitialIndex != 3 {
		t.Fatalf("unexpected builtin deck shape: %d cards, initial %d", len(d.Cards), d.InitialIndex)
	}
	if len(d.Colors()) != 8 {
		t.Fatalf("expected eight colors")
	}
}

func TestLoadEmptyPathUsesBuiltin(t *testing.T) {
	d, err := NewLoader().Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if d.Title != "Example" {
		t.Fatalf("expected builtin deck, got %q", d.Title)
	}
}

func TestLoadDeckFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.yaml")
	body := `kind: deck
schema_version: 1
title: Notes
initial_index: 1
cards:
  - id: first
    color: "#112233"
    body_md: "hello"
  - id: second
    title: Second card
    color: "#445566"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := NewLoader().Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if d.Path != path || len(d.Cards) != 2 {
		t.Fatalf("unexpected deck %+v", d)
	}
	if d.Cards[0].Title != "first" {
		t.Fatalf("expected title defaulted from id, got %q", d.Cards[0].Title)
	}
}

func TestValidateRejectsBadDecks(t *testing.T) {
	base := func() Deck {
		return Deck{
			Kind:          DeckKind,
			SchemaVersion: 1,
			Cards:         []Card{{ID: "a", Color: "#000000"}, {ID: "b", Color: "#FFFFFF"}},
		}
	}
	cases := map[string]func(*Deck){
		"wrong kind":        func(d *Deck) { d.Kind = "pack" },
		"future schema":     func(d *Deck) { d.SchemaVersion = SupportedSchemaVersion + 1 },
		"no cards":          func(d *Deck) { d.Cards = nil },
		"initial too large": func(d *Deck) { d.InitialIndex = 2 },
		"duplicate id":      func(d *Deck) { d.Cards[1].ID = "a" },
		"bad color":         func(d *Deck) { d.Cards[0].Color = "red" },
		"bad id":            func(d *Deck) { d.Cards[0].ID = "Has Spaces" },
	}
	for name, mutate := range cases {
		d := base()
		mutate(&d)
		if err := d.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("cards: [")); err == nil {
		t.Fatalf("expected yaml error")
	}
}
