package app

import (
	"carousel/internal/deck"
	"carousel/internal/session"
	"carousel/internal/ui"
)

type DeckLoader interface {
	Load(path string) (deck.Deck, error)
}

type EventLog interface {
	Info(msg string, fields map[string]any)
	Debug(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
	SessionID() string
	Close() error
}

// Presenter is the terminal view the app drives.
type Presenter interface {
	ui.View
	Do(fn func(*session.Session))
}

var (
	_ DeckLoader = (*deck.FSLoader)(nil)
	_ Presenter  = (*ui.Root)(nil)
)
