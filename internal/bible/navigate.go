package bible

// Next returns the position after pos in reading order. At the last verse of
// the last book it returns pos unchanged with end set.
func (c *Corpus) Next(pos Position) (next Position, end bool) {
	if pos.Verse+1 < c.VerseCount(pos.Book, pos.Chapter) {
		return Position{pos.Book, pos.Chapter, pos.Verse + 1}, false
	}
	if pos.Chapter+1 < c.ChapterCount(pos.Book) {
		return Position{pos.Book, pos.Chapter + 1, 0}, false
	}
	if pos.Book+1 < len(c.Books) {
		return Position{pos.Book + 1, 0, 0}, false
	}
	return pos, true
}

// Previous returns the position before pos in reading order. At the first
// verse of the first book it returns (0,0,0) with start set.
func (c *Corpus) Previous(pos Position) (prev Position, start bool) {
	if pos.Verse > 0 {
		return Position{pos.Book, pos.Chapter, pos.Verse - 1}, false
	}
	if pos.Chapter > 0 {
		ch := pos.Chapter - 1
		return Position{pos.Book, ch, max(0, c.VerseCount(pos.Book, ch)-1)}, false
	}
	if pos.Book > 0 {
		b := pos.Book - 1
		ch := max(0, c.ChapterCount(b)-1)
		return Position{b, ch, max(0, c.VerseCount(b, ch)-1)}, false
	}
	return Position{}, true
}

// ChapterChanged reports whether moving from a to b leaves a's chapter.
func ChapterChanged(a, b Position) bool {
	return a.Book != b.Book || a.Chapter != b.Chapter
}
