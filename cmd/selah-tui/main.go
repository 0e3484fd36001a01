// Package main provides the selah-tui binary entry point.
// Selah is a guided Bible reader for the terminal: it advances verse by verse
// or word by word at a chosen pace while tracking reading progress.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"selah-tui/internal/app"
	"selah-tui/internal/config"
	"selah-tui/internal/logging"
	"selah-tui/internal/music"
	"selah-tui/internal/ui"
)

const (
	Version = "0.1.0"
	appName = "selah-tui"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath  string
	logLevel    string
	translation string
}

func rootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Guided Bible reading in the terminal",
		Long: `Selah shows the Bible one verse or one word at a time, advancing at
a pace you choose, and keeps track of the chapters you have read, the
time spent reading and your favorite verses.

Run without arguments to open the reader.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(&flags)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVarP(&flags.translation, "translation", "t", "", "Translation to use instead of the saved one")

	cmd.AddCommand(
		searchCmd(&flags),
		refCmd(&flags),
		statsCmd(&flags),
		favoritesCmd(&flags),
		historyCmd(&flags),
		translationsCmd(&flags),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

// session is an opened App with its log file.
type session struct {
	app    *app.App
	logger *slog.Logger
	logs   io.Closer
}

func (s *session) Close() error {
	err := s.app.Close()
	if cerr := s.logs.Close(); err == nil {
		err = cerr
	}
	return err
}

func openSession(flags *globalFlags, opts ...app.Option) (*session, error) {
	cfg, err := config.NewLoader(logging.Discard()).Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	logger, logs, err := logging.Init(cfg.LogFile(), level, format)
	if err != nil {
		return nil, err
	}

	a, err := app.New(cfg, logger, opts...)
	if err != nil {
		logs.Close()
		return nil, err
	}
	s := &session{app: a, logger: logger, logs: logs}

	if flags.translation != "" {
		if err := a.LoadTranslation(flags.translation); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

func runTUI(flags *globalFlags) error {
	var appOpts []app.Option
	speaker, audioErr := music.NewSpeakerBackend()
	if audioErr == nil {
		appOpts = append(appOpts, app.WithMusicBackend(speaker))
	}

	s, err := openSession(flags, appOpts...)
	if err != nil {
		return err
	}
	defer s.Close()
	if audioErr != nil {
		s.logger.Warn("Audio output unavailable, music disabled", slog.String("error", audioErr.Error()))
	}

	opts := []tea.ProgramOption{}
	if s.app.Settings().Fullscreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(ui.NewModel(s.app, s.logger), opts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
