package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"carousel/internal/deck"
	"carousel/internal/devtools"
	"carousel/internal/session"
	"carousel/internal/telemetry"
	"carousel/internal/ui"
)

type App struct {
	cfg Config

	logger EventLog
	loader DeckLoader
	demo   *devtools.Manager
	view   Presenter
	deck   deck.Deck

	started time.Time

	devMu     sync.Mutex
	devServer *http.Server
	demoMu    sync.Mutex
	devState  DevState
	dismissed string
}

func New(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := telemetry.NewJSONLogger(cfg.LogPath)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	a, err := newApp(cfg, deck.NewLoader(), logger)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	return a, nil
}

func newApp(cfg Config, loader DeckLoader, logger EventLog) (*App, error) {
	d, err := loader.Load(cfg.DeckPath)
	if err != nil {
		return nil, fmt.Errorf("load deck: %w", err)
	}
	view := ui.New(ui.Options{
		ASCIIOnly:   cfg.ASCIIOnly,
		Debug:       cfg.Debug,
		MotionLevel: cfg.UI.MotionLevel,
		MouseScope:  cfg.UI.MouseScope,
		Deck:        d,
		Layout:      cfg.Layout,
		Grid:        ui.Grid{CellW: cfg.UI.CellWidth, CellH: cfg.UI.CellHeight},
	})
	a := &App{
		cfg:    cfg,
		logger: logger,
		loader: loader,
		demo:   devtools.NewManager(),
		view:   view,
		deck:   d,
	}
	view.SetController(a)
	return a, nil
}

func (a *App) Run(ctx context.Context) error {
	a.started = time.Now()
	a.logger.Info("app.start", map[string]any{
		"session":           a.logger.SessionID(),
		"deck":              a.deck.Title,
		"cards":             len(a.deck.Cards),
		"motion":            a.cfg.UI.MotionLevel,
		"interactive_close": a.cfg.Layout.InteractiveClose,
	})

	if a.cfg.Dev {
		if err := a.startDevHTTP(); err != nil {
			return err
		}
	}

	stop := context.AfterFunc(ctx, a.view.Stop)
	defer stop()
	err := a.view.Run()
	a.logger.Info("app.stop", map[string]any{
		"reason":     a.DismissReason(),
		"elapsed_ms": time.Since(a.started).Milliseconds(),
	})
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if a.devServer != nil {
		_ = a.devServer.Shutdown(ctx)
	}
	_ = a.logger.Close()
}

// DismissReason is how the presentation was closed, empty if it was quit
// without dismissing.
func (a *App) DismissReason() string {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	return a.dismissed
}

func (a *App) OnResize(cols, rows int) {
	a.logger.Debug("ui.resize", map[string]any{
		"cols":   cols,
		"rows":   rows,
		"layout": ui.DetermineLayoutMode(cols, rows).String(),
	})
}

func (a *App) OnDismissed(reason string) {
	a.devMu.Lock()
	a.dismissed = reason
	a.devMu.Unlock()
	fields := map[string]any{"reason": reason}
	if !a.started.IsZero() {
		fields["elapsed_ms"] = time.Since(a.started).Milliseconds()
	}
	a.logger.Info("carousel.dismissed", fields)
}

func (a *App) OnQuit() {
	a.logger.Info("app.quit", nil)
}

func (a *App) setDevState(state, demo string) {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	a.devState.State = state
	a.devState.Demo = demo
	a.devState.Pending = false
	a.devState.Error = ""
	a.devState.RenderSeq++
}

func (a *App) setDevPending(state, demo string) {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	a.devState.State = state
	a.devState.Demo = demo
	a.devState.Pending = true
	a.devState.Error = ""
	a.devState.RenderSeq++
}

func (a *App) setDevResult(state, demo string, r devtools.Result) {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	a.devState.State = state
	a.devState.Demo = demo
	a.devState.Pending = false
	a.devState.Error = ""
	a.devState.Last = &r
	a.devState.RenderSeq++
}

func (a *App) setDevError(state, demo, errText string) {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	a.devState.State = state
	a.devState.Demo = demo
	a.devState.Pending = false
	a.devState.Error = errText
	a.devState.RenderSeq++
}

func (a *App) getDevState() DevState {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	return a.devState
}

// runDemoScenario replays a named scenario against the live session on the
// UI goroutine and waits for its result.
func (a *App) runDemoScenario(ctx context.Context, requested string) (devtools.Result, error) {
	sc := a.demo.Resolve(requested)
	a.logger.Info("dev.demo.dispatch.begin", map[string]any{"requested": requested, "resolved": sc.Name})
	a.setDevPending(sc.Name, requested)

	a.demoMu.Lock()
	defer a.demoMu.Unlock()

	done := make(chan devtools.Result, 1)
	a.view.Do(func(s *session.Session) {
		done <- a.demo.Run(s, sc)
	})
	select {
	case res := <-done:
		a.setDevResult(sc.Name, requested, res)
		if err := a.demo.WriteState(a.cfg.DevStateDir, res); err != nil {
			a.logger.Error("dev_state.write_failed", map[string]any{"state": sc.Name, "error": err.Error()})
		}
		a.logger.Info("dev.demo.dispatch.done", map[string]any{"resolved": sc.Name, "phase": res.Phase, "closed": res.Closed})
		return res, nil
	case <-ctx.Done():
		err := fmt.Errorf("demo %s: %w", sc.Name, ctx.Err())
		a.setDevError(sc.Name, requested, err.Error())
		return devtools.Result{Scenario: sc.Name}, err
	}
}

func (a *App) devHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/__dev/ready", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(a.getDevState())
	})
	mux.HandleFunc("/__dev/demo", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		var req struct {
			Demo string `json:"demo"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "invalid json"})
			return
		}
		req.Demo = strings.TrimSpace(req.Demo)
		if req.Demo == "" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "demo is required"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		res, err := a.runDemoScenario(ctx, req.Demo)
		if err != nil {
			a.logger.Error("dev.demo.apply_failed", map[string]any{"demo": req.Demo, "error": err.Error()})
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": err.Error(), "state": res.Scenario})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "state": res.Scenario, "requested": req.Demo, "result": res})
	})
	return mux
}

func (a *App) startDevHTTP() error {
	if a.cfg.DevHTTP == "" {
		return errors.New("dev http address is empty")
	}
	a.devServer = &http.Server{Addr: a.cfg.DevHTTP, Handler: a.devHandler()}
	a.setDevState("carousel", "")
	go func() {
		if err := a.devServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("dev_http.listen_failed", map[string]any{"error": err.Error(), "addr": a.cfg.DevHTTP})
		}
	}()
	return nil
}

var _ ui.Controller = (*App)(nil)
