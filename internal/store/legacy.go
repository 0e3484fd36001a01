package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"selah-tui/internal/settings"
)

// Legacy file names from before settings and history moved into SQLite.
const (
	LegacySettingsFile = "settings.json"
	LegacyHistoryFile  = "history.json"
)

type legacyHistory struct {
	ChaptersRead []struct {
		Book    string `json:"book"`
		Chapter int    `json:"chapter"`
	} `json:"chapters_read"`
	TotalVersesRead  int64 `json:"total_verses_read"`
	TotalTimeReading int64 `json:"total_time_reading"`
}

// ImportLegacy moves legacy JSON files from dir into the database and renames
// each imported file to *.backup. Missing files are skipped, so calling it on
// every start is safe. A file that fails to import is left in place and the
// other one is still attempted.
func (d *Database) ImportLegacy(dir string) error {
	var errs []error
	if err := d.importFile(filepath.Join(dir, LegacySettingsFile), d.importSettings); err != nil {
		errs = append(errs, err)
	}
	if err := d.importFile(filepath.Join(dir, LegacyHistoryFile), d.importHistory); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (d *Database) importFile(path string, apply func([]byte) error) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := apply(data); err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	if err := os.Rename(path, path+".backup"); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

func (d *Database) importSettings(data []byte) error {
	var vals map[string]settings.Value
	if err := json.Unmarshal(data, &vals); err != nil {
		return err
	}
	for key, v := range vals {
		if err := d.SetSetting(key, v); err != nil {
			return err
		}
	}
	return nil
}

func (d *Database) importHistory(data []byte) error {
	var h legacyHistory
	if err := json.Unmarshal(data, &h); err != nil {
		return err
	}
	for _, ch := range h.ChaptersRead {
		if err := d.MarkChapterRead(ch.Book, ch.Chapter); err != nil {
			return err
		}
	}
	return d.SetReadingStats(ReadingStats{
		VersesRead:  h.TotalVersesRead,
		SecondsRead: h.TotalTimeReading,
	})
}
