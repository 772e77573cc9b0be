package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"carousel/internal/app"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:          "carousel",
		Short:        "Scroll-driven card carousel for the terminal",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	root.AddCommand(newRunCmd(&configPath), newSnapshotCmd(&configPath), newDemoCmd(&configPath))
	return root
}

func newRunCmd(configPath *string) *cobra.Command {
	var (
		deckPath           string
		logPath            string
		debug              bool
		ascii              bool
		dev                bool
		motion             string
		noInteractiveClose bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the carousel in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("deck") {
				cfg.DeckPath = deckPath
			}
			if flags.Changed("log") {
				cfg.LogPath = logPath
			}
			if flags.Changed("debug") {
				cfg.Debug = debug
			}
			if flags.Changed("ascii") {
				cfg.ASCIIOnly = ascii
			}
			if flags.Changed("dev") {
				cfg.Dev = dev
			}
			if flags.Changed("motion") {
				cfg.UI.MotionLevel = motion
			}
			if noInteractiveClose {
				cfg.Layout.InteractiveClose = false
			}

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Run(ctx)
		},
	}
	f := cmd.Flags()
	f.StringVar(&deckPath, "deck", "", "deck YAML file (defaults to the built-in deck)")
	f.StringVar(&logPath, "log", "", "write JSON event log to this file")
	f.BoolVar(&debug, "debug", false, "debug logging and layout readout")
	f.BoolVar(&ascii, "ascii", false, "ASCII-only glyphs")
	f.BoolVar(&dev, "dev", false, "serve the dev HTTP endpoint")
	f.StringVar(&motion, "motion", "full", "motion level: full, reduced or off")
	f.BoolVar(&noInteractiveClose, "no-interactive-close", false, "disable pull-down to dismiss")
	return cmd
}

func newSnapshotCmd(configPath *string) *cobra.Command {
	opts := app.DefaultSnapshotOptions()
	var deckPath string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render one layout pass to PNG",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			if deckPath != "" {
				cfg.DeckPath = deckPath
			}
			if err := app.Snapshot(cfg, opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", opts.Out)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.Out, "out", "", "output PNG path")
	f.Float64Var(&opts.Width, "width", opts.Width, "viewport width in points")
	f.Float64Var(&opts.Height, "height", opts.Height, "viewport height in points")
	f.IntVar(&opts.Page, "page", opts.Page, "item centered horizontally")
	f.IntVar(&opts.Focus, "focus", opts.Focus, "card whose vertical offset is set")
	f.Float64Var(&opts.Offset, "offset", opts.Offset, "vertical offset of the focused card")
	f.StringVar(&deckPath, "deck", "", "deck YAML file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newDemoCmd(configPath *string) *cobra.Command {
	var (
		scenario string
		out      string
		deckPath string
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Replay a scripted gesture scenario headlessly",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			if deckPath != "" {
				cfg.DeckPath = deckPath
			}
			res, err := app.RunDemo(cfg, scenario, out)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "scenario: %s\n", res.Scenario)
			fmt.Fprintf(w, "phase:    %s\n", res.Phase)
			fmt.Fprintf(w, "card:     %d (offset %.1f)\n", res.Card, res.CardOffset)
			fmt.Fprintf(w, "page:     %.1f\n", res.PageOffset)
			fmt.Fprintf(w, "frames:   %d\n", res.Frames)
			if res.Closed {
				fmt.Fprintf(w, "closed:   %s\n", res.Reason)
			}
			if out != "" {
				fmt.Fprintf(w, "wrote %s\n", out)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&scenario, "scenario", "expand", "scenario name")
	f.StringVar(&out, "out", "", "optional PNG of the final layout")
	f.StringVar(&deckPath, "deck", "", "deck YAML file")
	return cmd
}
