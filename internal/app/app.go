// Package app wires the reading components together and exposes them as one
// action per user operation, for the terminal UI and the command line.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"selah-tui/internal/api"
	"selah-tui/internal/bible"
	"selah-tui/internal/cache"
	"selah-tui/internal/config"
	"selah-tui/internal/favorites"
	"selah-tui/internal/history"
	"selah-tui/internal/music"
	"selah-tui/internal/reader"
	"selah-tui/internal/settings"
	"selah-tui/internal/store"
)

// ErrNoTranslation is returned by actions that need a loaded translation.
var ErrNoTranslation = errors.New("no translation loaded")

type App struct {
	cfg    *config.Config
	logger *slog.Logger

	db        *store.Database
	library   *bible.Library
	tracker   *history.Tracker
	favorites *favorites.Service
	player    *music.Player
	cache     *cache.Cache
	catalog   *api.Client

	settings settings.Settings
}

// Option customizes New.
type Option func(*options)

type options struct {
	backend music.Backend
	tracker []history.Option
}

// WithMusicBackend sets the audio output. Without it music stays disabled.
func WithMusicBackend(b music.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithTrackerOptions passes options to the history tracker.
func WithTrackerOptions(opts ...history.Option) Option {
	return func(o *options) { o.tracker = append(o.tracker, opts...) }
}

// New opens the database under cfg.DataDir, imports legacy JSON files once,
// loads settings and, when one was chosen before, the saved translation. A
// saved translation that fails to load leaves the app without a corpus so
// the caller can offer the selector.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	db, err := store.Open(filepath.Join(cfg.DataDir, store.FileName))
	if err != nil {
		return nil, err
	}
	if err := db.ImportLegacy(cfg.DataDir); err != nil {
		logger.Warn("Legacy import incomplete", slog.String("error", err.Error()))
	}

	// Load falls back to defaults on error; the session runs on those.
	s, existed, err := settings.Load(db)
	if err != nil {
		logger.Error("Settings unavailable, using defaults", slog.String("error", err.Error()))
	}

	c, err := cache.New(cfg.TranslationsDir(), cfg.Translations.DownloadURL, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	a := &App{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		library:   bible.NewLibrary(cfg.TranslationsDir(), logger),
		tracker:   history.NewTracker(db, append([]history.Option{history.WithLogger(logger)}, o.tracker...)...),
		favorites: favorites.NewService(db),
		player:    music.NewPlayer(o.backend, s.MusicVolume, logger),
		cache:     c,
		catalog:   api.NewClient(cfg.Translations.CatalogURL),
		settings:  s,
	}
	logger.Info("App started", slog.Bool("first_run", !existed), slog.String("translation", s.BibleVersion))

	if !s.IsFirstTime() {
		if err := a.library.Load(s.BibleVersion); err == nil {
			a.settings.LastPosition = a.library.Corpus().Clamp(a.settings.LastPosition)
		}
	}
	a.loadMusic()
	return a, nil
}

// Close ends any reading session, saves settings and closes the database.
func (a *App) Close() error {
	a.player.Stop()
	err := a.tracker.EndSession()
	err = errors.Join(err, settings.Save(a.db, a.settings))
	return errors.Join(err, a.db.Close())
}

func (a *App) Config() *config.Config { return a.cfg }

// ---- Translations ----

// Corpus returns the loaded translation, or nil.
func (a *App) Corpus() *bible.Corpus { return a.library.Corpus() }

func (a *App) corpus() (*bible.Corpus, error) {
	c := a.library.Corpus()
	if c == nil {
		return nil, ErrNoTranslation
	}
	return c, nil
}

func (a *App) CachedTranslations() ([]string, error) { return a.cache.ListCached() }

func (a *App) RemoteTranslations(ctx context.Context) ([]api.Translation, error) {
	return a.catalog.Translations(ctx, a.cfg.Translations.Language)
}

func (a *App) DownloadTranslation(ctx context.Context, id string) error {
	return a.cache.DownloadTranslation(ctx, id)
}

func (a *App) RemoveTranslation(id string) error {
	if c := a.library.Corpus(); c != nil && c.Version == id {
		return fmt.Errorf("translation %s is in use", id)
	}
	return a.cache.RemoveTranslation(id)
}

func (a *App) CacheSize() (int64, error) { return a.cache.Size() }

// LoadTranslation loads id for this run only, leaving the saved choice alone.
func (a *App) LoadTranslation(id string) error { return a.library.Load(id) }

// SelectTranslation loads id and makes it the saved choice. The last
// position is clamped into the new translation.
func (a *App) SelectTranslation(id string) error {
	if err := a.library.Load(id); err != nil {
		return err
	}
	a.settings.BibleVersion = id
	a.settings.LastPosition = a.library.Corpus().Clamp(a.settings.LastPosition)
	return a.saveSettings()
}

// ---- Settings ----

func (a *App) Settings() settings.Settings { return a.settings }

// UpdateSettings applies fn and persists the result.
func (a *App) UpdateSettings(fn func(*settings.Settings)) error {
	fn(&a.settings)
	a.player.SetVolume(a.settings.MusicVolume)
	return a.saveSettings()
}

func (a *App) saveSettings() error {
	if err := settings.Save(a.db, a.settings); err != nil {
		a.logger.Error("Failed to save settings", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// ---- Reading ----

// StartReading opens a reading session and returns an engine positioned at
// pos. Every move is saved as the last position.
func (a *App) StartReading(pos bible.Position) (*reader.Engine, error) {
	c, err := a.corpus()
	if err != nil {
		return nil, err
	}
	a.tracker.StartSession()
	onMove := func(p bible.Position) { a.settings.LastPosition = p }
	return reader.New(c, a.tracker, c.Clamp(pos), a.settings.ReadingMode, a.settings.WordSpeed, onMove), nil
}

// StopReading closes the session and saves the engine's mode, speed and
// position.
func (a *App) StopReading(e *reader.Engine) error {
	err := a.tracker.EndSession()
	if e != nil {
		a.settings.ReadingMode = e.Mode()
		a.settings.SetWordSpeed(e.Speed())
		a.settings.LastPosition = e.Position()
	}
	return errors.Join(err, a.saveSettings())
}

// ---- History ----

func (a *App) Stats() (history.Stats, error) { return a.tracker.Stats() }

func (a *App) ChaptersRead(bookAbbrev string) ([]int, error) {
	return a.tracker.ChaptersReadForBook(bookAbbrev)
}

func (a *App) ClearHistory() error { return a.tracker.Clear() }

// ---- Search ----

// Find resolves a reference or runs a full-text search, using the
// configured limit and case sensitivity.
func (a *App) Find(query string) ([]bible.SearchResult, error) {
	c, err := a.corpus()
	if err != nil {
		return nil, err
	}
	return c.Find(query, a.cfg.Search.MaxResults, a.cfg.Search.CaseSensitive), nil
}

// ---- Favorites ----

func (a *App) Favorites() ([]store.Favorite, error) { return a.favorites.List() }

func (a *App) ToggleFavorite(pos bible.Position) (bool, error) {
	c, err := a.corpus()
	if err != nil {
		return false, err
	}
	return a.favorites.Toggle(c, pos)
}

func (a *App) IsFavorite(pos bible.Position) (bool, error) { return a.favorites.IsFavorite(pos) }

func (a *App) RemoveFavorite(pos bible.Position) error {
	_, err := a.favorites.Remove(pos)
	return err
}

func (a *App) UpdateFavoriteNote(pos bible.Position, note string) error {
	ok, err := a.favorites.UpdateNote(pos, note)
	if err == nil && !ok {
		err = fmt.Errorf("no favorite at %d:%d:%d", pos.Book, pos.Chapter, pos.Verse)
	}
	return err
}

// ---- Music ----

func (a *App) loadMusic() {
	dir := a.settings.MusicFolder
	if dir == "" {
		dir = a.cfg.MusicDir()
	}
	if _, err := os.Stat(dir); err != nil {
		a.logger.Debug("No music folder", slog.String("dir", dir))
		return
	}
	if err := a.player.LoadFolder(dir, a.cfg.Music.Shuffle); err != nil {
		a.logger.Warn("Failed to load music", slog.String("dir", dir), slog.String("error", err.Error()))
	}
}

// ToggleMusic pauses or resumes background music and saves the choice.
func (a *App) ToggleMusic() error {
	if !a.player.Available() || a.player.Count() == 0 {
		a.settings.MusicEnabled = false
		return a.saveSettings()
	}
	if err := a.player.Toggle(); err != nil {
		return err
	}
	a.settings.MusicEnabled = a.player.State() == music.Playing
	return a.saveSettings()
}

// ResumeMusic starts music when it is enabled in settings.
func (a *App) ResumeMusic() error {
	if !a.settings.MusicEnabled || !a.player.Available() || a.player.Count() == 0 {
		return nil
	}
	if a.player.State() == music.Playing {
		return nil
	}
	return a.player.Play()
}

func (a *App) PauseMusic() { a.player.Pause() }

// PollMusic moves to the next track when the current one ended.
func (a *App) PollMusic() error {
	_, err := a.player.CheckTrackEnded()
	return err
}

func (a *App) NextTrack() error { return a.player.NextTrack() }

func (a *App) MusicStatus() (track string, state music.State) {
	return a.player.TrackName(), a.player.State()
}
