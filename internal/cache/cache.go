// Package cache manages the local directory of translation documents.
package cache

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"selah-tui/internal/bible"
)

// IDPlaceholder is replaced by the translation id in download URL templates.
const IDPlaceholder = "{id}"

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type Cache struct {
	dir         string
	urlTemplate string
	httpClient  *http.Client
	logger      *slog.Logger
}

func New(dir, urlTemplate string, logger *slog.Logger) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create translations dir: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		dir:         dir,
		urlTemplate: urlTemplate,
		httpClient:  &http.Client{},
		logger:      logger,
	}, nil
}

func (c *Cache) Dir() string { return c.dir }

// IsCached checks if a translation document exists, compressed or not.
func (c *Cache) IsCached(id string) bool {
	for _, path := range bible.DocumentPaths(c.dir, id) {
		if _, err := os.Stat(path); err == nil {
			return true
		}
	}
	return false
}

// ListCached returns the ids of cached translations, sorted.
func (c *Cache) ListCached() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		id, ok := strings.CutSuffix(name, ".json.xz")
		if !ok {
			id, ok = strings.CutSuffix(name, ".json")
		}
		if ok && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// RemoveTranslation deletes every document stored for id.
func (c *Cache) RemoveTranslation(id string) error {
	removed := false
	for _, path := range bible.DocumentPaths(c.dir, id) {
		err := os.Remove(path)
		if err == nil {
			removed = true
			continue
		}
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	if !removed {
		return fmt.Errorf("%s: %w", id, bible.ErrTranslationNotFound)
	}
	return nil
}

// Size returns the total size of cached documents in bytes.
func (c *Cache) Size() (int64, error) {
	var size int64
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		size += info.Size()
	}
	return size, nil
}

// DownloadTranslation fetches a translation and stores it as <id>.json. The
// payload may be a zip archive holding the JSON document, and the document
// may be either the corpus format or a flat verse list, which is converted.
func (c *Cache) DownloadTranslation(ctx context.Context, id string) error {
	if !validID.MatchString(id) {
		return fmt.Errorf("invalid translation id %q", id)
	}
	url := strings.ReplaceAll(c.urlTemplate, IDPlaceholder, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}

	if isZip(payload) {
		if payload, err = extractJSON(payload); err != nil {
			return err
		}
	}

	doc, err := normalize(payload)
	if err != nil {
		return fmt.Errorf("translation %s: %w", id, err)
	}
	if _, err := bible.Parse(id, doc); err != nil {
		return fmt.Errorf("translation %s: %w", id, err)
	}

	if err := c.write(id, doc); err != nil {
		return err
	}
	c.logger.Info("Translation downloaded", slog.String("id", id), slog.Int("bytes", len(doc)))
	return nil
}

// write replaces the cached document atomically and drops a stale
// compressed copy so Load picks up the new one.
func (c *Cache) write(id string, doc []byte) error {
	tmp, err := os.CreateTemp(c.dir, id+"*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	paths := bible.DocumentPaths(c.dir, id)
	if err := os.Rename(tmp.Name(), paths[0]); err != nil {
		return err
	}
	if err := os.Remove(paths[1]); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func isZip(data []byte) bool {
	return bytes.HasPrefix(data, []byte("PK\x03\x04"))
}

func extractJSON(data []byte) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	// Find the JSON file in the ZIP
	for _, f := range r.File {
		if filepath.Ext(f.Name) != ".json" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("no JSON file found in ZIP")
}

// verse is one entry of a flat verse list. Book numbers are canonical and
// 1-based, as are chapter and verse numbers.
type verse struct {
	Book    int    `json:"book"`
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
	Text    string `json:"text"`
}

var markup = regexp.MustCompile(`<[^>]*>`)

// normalize returns doc in the corpus format, converting a flat verse list.
func normalize(doc []byte) ([]byte, error) {
	doc = bytes.TrimPrefix(doc, []byte("\xEF\xBB\xBF"))

	var probe []map[string]json.RawMessage
	if err := json.Unmarshal(doc, &probe); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if len(probe) == 0 {
		return nil, errors.New("empty document")
	}
	if _, ok := probe[0]["abbrev"]; ok {
		return doc, nil
	}

	var verses []verse
	if err := json.Unmarshal(doc, &verses); err != nil {
		return nil, fmt.Errorf("decode verses: %w", err)
	}
	return json.Marshal(fromVerses(verses))
}

func fromVerses(verses []verse) []bible.Book {
	sort.SliceStable(verses, func(i, j int) bool {
		a, b := verses[i], verses[j]
		if a.Book != b.Book {
			return a.Book < b.Book
		}
		if a.Chapter != b.Chapter {
			return a.Chapter < b.Chapter
		}
		return a.Verse < b.Verse
	})

	var books []bible.Book
	lastBook := 0
	for _, v := range verses {
		abbrev, ok := bible.AbbrevByNumber(v.Book)
		if !ok || v.Chapter < 1 {
			continue
		}
		if v.Book != lastBook {
			books = append(books, bible.Book{Abbrev: abbrev})
			lastBook = v.Book
		}
		b := &books[len(books)-1]
		for len(b.Chapters) < v.Chapter {
			b.Chapters = append(b.Chapters, []string{})
		}
		text := strings.TrimSpace(markup.ReplaceAllString(v.Text, ""))
		b.Chapters[v.Chapter-1] = append(b.Chapters[v.Chapter-1], text)
	}
	return books
}
