// Package store persists settings, reading history and favorites in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"

	"selah-tui/internal/bible"
	"selah-tui/internal/settings"
)

// FileName is the database file created inside the data directory.
const FileName = "selah.db"

// ReadingStats are the persisted reading counters.
type ReadingStats struct {
	VersesRead  int64
	SecondsRead int64
}

// Favorite is a bookmarked verse. Text and Reference are snapshots taken when
// the favorite was created so it renders without the corpus loaded.
type Favorite struct {
	ID        int64
	Position  bible.Position
	Text      string
	Reference string
	Note      string
	CreatedAt time.Time
}

// Database wraps the SQLite connection.
type Database struct {
	db  *sql.DB
	now func() time.Time

	markChapterStmt *sql.Stmt
	setSettingStmt  *sql.Stmt
}

// Open opens (or creates) the database at path, applies migrations and
// prepares common statements.
func Open(path string) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	d := &Database{db: db, now: time.Now}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close releases prepared statements and closes the DB.
func (d *Database) Close() error {
	if d.markChapterStmt != nil {
		d.markChapterStmt.Close()
	}
	if d.setSettingStmt != nil {
		d.setSettingStmt.Close()
	}
	return d.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS settings (
            key TEXT PRIMARY KEY,
            value TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS chapters_read (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            book_abbrev TEXT NOT NULL,
            chapter_index INTEGER NOT NULL,
            read_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            UNIQUE(book_abbrev, chapter_index)
        );`,
		`CREATE TABLE IF NOT EXISTS reading_stats (
            id INTEGER PRIMARY KEY CHECK (id = 1),
            total_verses_read INTEGER NOT NULL DEFAULT 0,
            total_time_reading INTEGER NOT NULL DEFAULT 0
        );`,
		`INSERT OR IGNORE INTO reading_stats (id, total_verses_read, total_time_reading) VALUES (1, 0, 0);`,
		`CREATE TABLE IF NOT EXISTS favorites (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            book_index INTEGER NOT NULL,
            chapter_index INTEGER NOT NULL,
            verse_index INTEGER NOT NULL,
            verse_text TEXT NOT NULL,
            reference TEXT NOT NULL,
            note TEXT,
            created_at TIMESTAMP NOT NULL,
            UNIQUE(book_index, chapter_index, verse_index)
        );`,
		`CREATE INDEX IF NOT EXISTS idx_chapters_book ON chapters_read(book_abbrev);`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (d *Database) prepareStatements() error {
	var err error
	if d.markChapterStmt, err = d.db.Prepare(`INSERT OR IGNORE INTO chapters_read(book_abbrev, chapter_index) VALUES(?,?)`); err != nil {
		return err
	}
	if d.setSettingStmt, err = d.db.Prepare(`INSERT INTO settings(key,value) VALUES(?,?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value`); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Settings
// ---------------------------------------------------------------------------

// Setting returns the stored value for key. ok is false when the key is unset.
func (d *Database) Setting(key string) (v settings.Value, ok bool, err error) {
	var raw string
	err = d.db.QueryRow(`SELECT value FROM settings WHERE key=?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.Null(), false, nil
	}
	if err != nil {
		return settings.Null(), false, err
	}
	return decodeSetting(raw), true, nil
}

func (d *Database) SetSetting(key string, v settings.Value) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode setting %s: %w", key, err)
	}
	_, err = d.setSettingStmt.Exec(key, string(data))
	return err
}

func (d *Database) AllSettings() (map[string]settings.Value, error) {
	rows, err := d.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]settings.Value{}
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, err
		}
		out[key] = decodeSetting(raw)
	}
	return out, rows.Err()
}

// decodeSetting tolerates rows that were written as bare text rather than JSON.
func decodeSetting(raw string) settings.Value {
	var v settings.Value
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return settings.String(raw)
	}
	return v
}

// ---------------------------------------------------------------------------
// Reading history
// ---------------------------------------------------------------------------

// MarkChapterRead records a chapter as read. Repeated calls are no-ops.
func (d *Database) MarkChapterRead(bookAbbrev string, chapter int) error {
	_, err := d.markChapterStmt.Exec(bookAbbrev, chapter)
	return err
}

func (d *Database) IsChapterRead(bookAbbrev string, chapter int) (bool, error) {
	var exists bool
	err := d.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM chapters_read WHERE book_abbrev=? AND chapter_index=?)`, bookAbbrev, chapter).Scan(&exists)
	return exists, err
}

// ChaptersReadForBook returns the read chapter indices of a book, ascending.
func (d *Database) ChaptersReadForBook(bookAbbrev string) ([]int, error) {
	rows, err := d.db.Query(`SELECT chapter_index FROM chapters_read WHERE book_abbrev=? ORDER BY chapter_index`, bookAbbrev)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chapters := []int{}
	for rows.Next() {
		var ch int
		if err := rows.Scan(&ch); err != nil {
			return nil, err
		}
		chapters = append(chapters, ch)
	}
	return chapters, rows.Err()
}

func (d *Database) ChaptersReadCount() (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM chapters_read`).Scan(&n)
	return n, err
}

func (d *Database) ReadingStats() (ReadingStats, error) {
	var s ReadingStats
	err := d.db.QueryRow(`SELECT total_verses_read, total_time_reading FROM reading_stats WHERE id=1`).
		Scan(&s.VersesRead, &s.SecondsRead)
	return s, err
}

func (d *Database) IncrementVersesRead(n int) error {
	_, err := d.db.Exec(`UPDATE reading_stats SET total_verses_read = total_verses_read + ? WHERE id=1`, n)
	return err
}

func (d *Database) AddReadingTime(seconds int64) error {
	_, err := d.db.Exec(`UPDATE reading_stats SET total_time_reading = total_time_reading + ? WHERE id=1`, seconds)
	return err
}

// SetReadingStats overwrites both counters.
func (d *Database) SetReadingStats(s ReadingStats) error {
	_, err := d.db.Exec(`UPDATE reading_stats SET total_verses_read=?, total_time_reading=? WHERE id=1`, s.VersesRead, s.SecondsRead)
	return err
}

// ClearHistory deletes the read chapters and zeroes the counters in one
// transaction.
func (d *Database) ClearHistory() error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM chapters_read`); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE reading_stats SET total_verses_read=0, total_time_reading=0 WHERE id=1`); err != nil {
		return err
	}
	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Favorites
// ---------------------------------------------------------------------------

// AddFavorite stores f. It returns false without error when the position is
// already a favorite.
func (d *Database) AddFavorite(f Favorite) (bool, error) {
	createdAt := f.CreatedAt
	if createdAt.IsZero() {
		createdAt = d.now()
	}
	_, err := d.db.Exec(`INSERT INTO favorites(book_index, chapter_index, verse_index, verse_text, reference, note, created_at)
        VALUES(?,?,?,?,?,?,?)`,
		f.Position.Book, f.Position.Chapter, f.Position.Verse, f.Text, f.Reference, nullString(f.Note), createdAt.UTC())
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RemoveFavorite reports whether a favorite existed at pos.
func (d *Database) RemoveFavorite(pos bible.Position) (bool, error) {
	res, err := d.db.Exec(`DELETE FROM favorites WHERE book_index=? AND chapter_index=? AND verse_index=?`,
		pos.Book, pos.Chapter, pos.Verse)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (d *Database) IsFavorite(pos bible.Position) (bool, error) {
	var exists bool
	err := d.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM favorites WHERE book_index=? AND chapter_index=? AND verse_index=?)`,
		pos.Book, pos.Chapter, pos.Verse).Scan(&exists)
	return exists, err
}

// Favorites returns all favorites, newest first.
func (d *Database) Favorites() ([]Favorite, error) {
	rows, err := d.db.Query(`SELECT id, book_index, chapter_index, verse_index, verse_text, reference, COALESCE(note,''), created_at
        FROM favorites ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favs := []Favorite{}
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.ID, &f.Position.Book, &f.Position.Chapter, &f.Position.Verse,
			&f.Text, &f.Reference, &f.Note, &f.CreatedAt); err != nil {
			return nil, err
		}
		favs = append(favs, f)
	}
	return favs, rows.Err()
}

// UpdateFavoriteNote reports whether a favorite existed at pos.
func (d *Database) UpdateFavoriteNote(pos bible.Position, note string) (bool, error) {
	res, err := d.db.Exec(`UPDATE favorites SET note=? WHERE book_index=? AND chapter_index=? AND verse_index=?`,
		nullString(note), pos.Book, pos.Chapter, pos.Verse)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (d *Database) FavoritesCount() (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM favorites`).Scan(&n)
	return n, err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
