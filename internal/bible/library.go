package bible

import (
	"log/slog"
)

// Library owns the currently loaded corpus. Switching translations replaces
// the corpus wholesale; a failed switch keeps the previous one.
type Library struct {
	dir     string
	current *Corpus
	logger  *slog.Logger
}

func NewLibrary(dir string, logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.Default()
	}
	return &Library{dir: dir, logger: logger}
}

// Load makes version the current corpus.
func (l *Library) Load(version string) error {
	c, err := Load(l.dir, version)
	if err != nil {
		l.logger.Warn("Failed to load translation", slog.String("version", version), slog.String("error", err.Error()))
		return err
	}
	l.current = c
	l.logger.Info("Loaded translation", slog.String("version", version), slog.Int("books", c.BookCount()))
	return nil
}

// Corpus returns the loaded corpus, or nil before the first successful Load.
func (l *Library) Corpus() *Corpus { return l.current }

func (l *Library) Loaded() bool { return l.current != nil }

func (l *Library) Dir() string { return l.dir }
