// Package bible holds a loaded translation and the pure operations over it:
// lookups, sequential navigation and text search.
package bible

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"
)

// ErrTranslationNotFound is returned when no document exists for a version.
var ErrTranslationNotFound = errors.New("translation not found")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Book is one book of a translation. Chapters are ordered lists of verses.
type Book struct {
	Abbrev   string     `json:"abbrev"`
	Chapters [][]string `json:"chapters"`
}

// BookInfo is the listing form of a book used by selectors.
type BookInfo struct {
	Index    int
	Abbrev   string
	Name     string
	Chapters int
}

// Corpus is an immutable, fully loaded translation.
type Corpus struct {
	Version string
	Books   []Book
}

// Position addresses one verse. All indices are 0-based.
type Position struct {
	Book    int `json:"book_index"`
	Chapter int `json:"chapter_index"`
	Verse   int `json:"verse_index"`
}

// DocumentPaths lists the files Load tries for a version, in order.
func DocumentPaths(dir, version string) []string {
	base := filepath.Join(dir, version+".json")
	return []string{base, base + ".xz"}
}

// Load reads a translation document from dir. Plain JSON is preferred over
// the xz-compressed form when both exist.
func Load(dir, version string) (*Corpus, error) {
	for _, path := range DocumentPaths(dir, version) {
		data, err := readDocument(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		c, err := Parse(version, data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return c, nil
	}
	return nil, fmt.Errorf("%s: %w", version, ErrTranslationNotFound)
}

func readDocument(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if filepath.Ext(path) == ".xz" {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, err
		}
		r = xr
	}
	return io.ReadAll(r)
}

// Parse decodes a translation document: a JSON array of books, each with an
// abbreviation and its chapters.
func Parse(version string, data []byte) (*Corpus, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	var books []Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, errors.New("document has no books")
	}
	return &Corpus{Version: version, Books: books}, nil
}

func (c *Corpus) BookCount() int { return len(c.Books) }

func (c *Corpus) Book(i int) (Book, bool) {
	if i < 0 || i >= len(c.Books) {
		return Book{}, false
	}
	return c.Books[i], true
}

func (c *Corpus) BookAbbrev(i int) string {
	b, _ := c.Book(i)
	return b.Abbrev
}

// BookName returns the display name of book i, empty when out of range.
func (c *Corpus) BookName(i int) string {
	b, ok := c.Book(i)
	if !ok {
		return ""
	}
	return DisplayName(b.Abbrev)
}

func (c *Corpus) ChapterCount(book int) int {
	b, _ := c.Book(book)
	return len(b.Chapters)
}

func (c *Corpus) Chapter(book, chapter int) []string {
	b, ok := c.Book(book)
	if !ok || chapter < 0 || chapter >= len(b.Chapters) {
		return nil
	}
	return b.Chapters[chapter]
}

func (c *Corpus) VerseCount(book, chapter int) int {
	return len(c.Chapter(book, chapter))
}

func (c *Corpus) Verse(book, chapter, verse int) string {
	ch := c.Chapter(book, chapter)
	if verse < 0 || verse >= len(ch) {
		return ""
	}
	return ch[verse]
}

// Text returns the verse at pos.
func (c *Corpus) Text(pos Position) string {
	return c.Verse(pos.Book, pos.Chapter, pos.Verse)
}

// Reference formats a position for display, 1-based: "João 3:16".
func (c *Corpus) Reference(pos Position) string {
	return fmt.Sprintf("%s %d:%d", c.BookName(pos.Book), pos.Chapter+1, pos.Verse+1)
}

// BookList returns every book with its display name and chapter count.
func (c *Corpus) BookList() []BookInfo {
	infos := make([]BookInfo, 0, len(c.Books))
	for i, b := range c.Books {
		infos = append(infos, BookInfo{
			Index:    i,
			Abbrev:   b.Abbrev,
			Name:     DisplayName(b.Abbrev),
			Chapters: len(b.Chapters),
		})
	}
	return infos
}

// Valid reports whether pos addresses an existing verse.
func (c *Corpus) Valid(pos Position) bool {
	return pos.Verse >= 0 && pos.Verse < c.VerseCount(pos.Book, pos.Chapter)
}

// Clamp pulls a stored position into range for this corpus. It is used when a
// position saved under one translation is restored under another.
func (c *Corpus) Clamp(pos Position) Position {
	if len(c.Books) == 0 {
		return Position{}
	}
	pos.Book = clamp(pos.Book, 0, len(c.Books)-1)
	pos.Chapter = clamp(pos.Chapter, 0, max(0, c.ChapterCount(pos.Book)-1))
	pos.Verse = clamp(pos.Verse, 0, max(0, c.VerseCount(pos.Book, pos.Chapter)-1))
	return pos
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
