package bible

import (
	"regexp"
	"strconv"
	"strings"
)

// HighlightMarker wraps each matched span in SearchResult.Highlight.
const HighlightMarker = "**"

// SearchResult is one verse hit. Highlight is empty for reference lookups.
type SearchResult struct {
	Position
	Text      string
	Reference string
	Highlight string
}

// Display is the text to show for a hit: the highlighted verse, or the plain
// verse for reference lookups.
func (r SearchResult) Display() string {
	if r.Highlight == "" {
		return r.Text
	}
	return r.Highlight
}

// Search scans the corpus in reading order for verses containing query and
// stops after maxResults hits. Blank queries match nothing.
func (c *Corpus) Search(query string, maxResults int, caseSensitive bool) []SearchResult {
	results := []SearchResult{}
	if strings.TrimSpace(query) == "" {
		return results
	}

	// The same pattern selects and marks case-insensitive hits.
	var pattern *regexp.Regexp
	if !caseSensitive {
		pattern = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(query))
	}

	for b, book := range c.Books {
		for ch, verses := range book.Chapters {
			for v, text := range verses {
				if len(results) >= maxResults {
					return results
				}

				var highlight string
				if caseSensitive {
					if !strings.Contains(text, query) {
						continue
					}
					highlight = strings.ReplaceAll(text, query, HighlightMarker+query+HighlightMarker)
				} else {
					if !pattern.MatchString(text) {
						continue
					}
					highlight = pattern.ReplaceAllStringFunc(text, func(m string) string {
						return HighlightMarker + m + HighlightMarker
					})
				}

				pos := Position{b, ch, v}
				results = append(results, SearchResult{
					Position:  pos,
					Text:      text,
					Reference: c.Reference(pos),
					Highlight: highlight,
				})
			}
		}
	}
	return results
}

// Reference patterns, tried in order. The book group allows a leading
// ordinal digit ("1 João", "1jo").
var referencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d?\s*[\p{L}\p{N}_]+)\s+(\d+):(\d+)$`),
	regexp.MustCompile(`^(\d?\s*[\p{L}\p{N}_]+)\s+(\d+)$`),
}

// SearchByReference resolves "Book C:V" or "Book C" to a single verse. An
// omitted verse means the first verse of the chapter. Unknown books and
// out-of-range numbers are reported as not found.
func (c *Corpus) SearchByReference(text string) (SearchResult, bool) {
	text = strings.TrimSpace(text)

	for _, re := range referencePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		book, ok := c.FindBook(m[1])
		if !ok {
			return SearchResult{}, false
		}
		chapter, err := strconv.Atoi(m[2])
		if err != nil {
			return SearchResult{}, false
		}
		chapter--
		if chapter < 0 || chapter >= c.ChapterCount(book) {
			return SearchResult{}, false
		}

		verse := 0
		if len(m) > 3 {
			n, err := strconv.Atoi(m[3])
			if err != nil {
				return SearchResult{}, false
			}
			verse = n - 1
			if verse < 0 || verse >= c.VerseCount(book, chapter) {
				return SearchResult{}, false
			}
		}

		pos := Position{book, chapter, verse}
		return SearchResult{
			Position:  pos,
			Text:      c.Text(pos),
			Reference: c.Reference(pos),
		}, true
	}
	return SearchResult{}, false
}

// FindBook maps a book name or abbreviation to its index. Resolution order:
// exact abbreviation, exact display name, display-name prefix.
func (c *Corpus) FindBook(name string) (int, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return 0, false
	}

	for i, b := range c.Books {
		if strings.ToLower(b.Abbrev) == name {
			return i, true
		}
	}

	match := func(pred func(full string) bool) (int, bool) {
		for _, bn := range bookNames {
			if !pred(strings.ToLower(bn.name)) {
				continue
			}
			if i, ok := c.indexOfAbbrev(bn.abbrev); ok {
				return i, true
			}
		}
		return 0, false
	}

	if i, ok := match(func(full string) bool { return full == name }); ok {
		return i, true
	}
	return match(func(full string) bool { return strings.HasPrefix(full, name) })
}

func (c *Corpus) indexOfAbbrev(abbrev string) (int, bool) {
	for i, b := range c.Books {
		if strings.ToLower(b.Abbrev) == abbrev {
			return i, true
		}
	}
	return 0, false
}

// Find is the search box dispatcher: a query that parses as a reference
// yields that verse alone, anything else falls through to full-text search.
func (c *Corpus) Find(query string, maxResults int, caseSensitive bool) []SearchResult {
	if r, ok := c.SearchByReference(query); ok {
		return []SearchResult{r}
	}
	return c.Search(query, maxResults, caseSensitive)
}
