// Package chunker splits extracted document text into overlapping
// chunks suitable for embedding.
package chunker

import (
	"strings"
	"unicode"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driven"
)

// Ensure Chunker implements the interface.
var _ driven.Chunker = (*Chunker)(nil)

// Default split parameters, used when the caller passes zero values.
const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200
)

// Chunker splits text at paragraph boundaries where possible, sentence
// boundaries otherwise, and hard rune cuts as a last resort. The same
// input always produces the same chunks.
type Chunker struct{}

// New creates a new chunker.
func New() *Chunker {
	return &Chunker{}
}

// segment is a splittable piece of cleaned text with rune offsets.
type segment struct {
	start int
	end   int
}

// Split divides text into ordered overlapping chunks.
func (c *Chunker) Split(text string, size, overlap int) ([]driven.ChunkSpan, error) {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	if overlap >= size {
		overlap = size / 2
	}

	cleaned := cleanText(text)
	if cleaned == "" {
		return nil, domain.ErrEmptyDocument
	}

	runes := []rune(cleaned)
	segments := segmentise(runes, size)

	var spans []driven.ChunkSpan
	start := segments[0].start
	end := start

	flush := func() {
		spans = append(spans, driven.ChunkSpan{
			Index:     len(spans),
			Text:      string(runes[start:end]),
			CharStart: start,
			CharEnd:   end,
		})
	}

	for _, seg := range segments {
		if end > start && seg.end-start > size {
			flush()
			// Carry the overlap into the next chunk, snapped forward
			// past whitespace so chunks start on content.
			next := end - overlap
			if next <= start {
				next = start + 1
			}
			for next < end && unicode.IsSpace(runes[next]) {
				next++
			}
			start = next
		}
		end = seg.end
	}
	if end > start {
		flush()
	}

	return spans, nil
}

// segmentise cuts cleaned text into pieces no longer than size runes.
// Paragraphs short enough stay whole; oversized ones are cut at
// sentence ends, then hard-cut.
func segmentise(runes []rune, size int) []segment {
	var segments []segment
	for _, para := range paragraphs(runes) {
		if para.end-para.start <= size {
			segments = append(segments, para)
			continue
		}
		segments = append(segments, splitLong(runes, para, size)...)
	}
	return segments
}

// paragraphs finds blank-line separated blocks, trimmed of surrounding
// whitespace.
func paragraphs(runes []rune) []segment {
	var out []segment
	start := 0
	for i := 0; i <= len(runes); i++ {
		atBreak := i == len(runes) || (runes[i] == '\n' && i+1 < len(runes) && nextNonSpaceIsNewline(runes, i+1))
		if !atBreak {
			continue
		}
		if seg, ok := trim(runes, start, i); ok {
			out = append(out, seg)
		}
		start = i + 1
	}
	if len(out) == 0 {
		if seg, ok := trim(runes, 0, len(runes)); ok {
			out = append(out, seg)
		}
	}
	return out
}

// nextNonSpaceIsNewline reports whether the line starting at i is blank.
func nextNonSpaceIsNewline(runes []rune, i int) bool {
	for ; i < len(runes); i++ {
		if runes[i] == '\n' {
			return true
		}
		if !unicode.IsSpace(runes[i]) {
			return false
		}
	}
	return false
}

// splitLong cuts an oversized paragraph at sentence boundaries,
// falling back to hard cuts for single run-on sentences.
func splitLong(runes []rune, para segment, size int) []segment {
	var out []segment
	start := para.start
	lastBoundary := -1

	for i := para.start; i < para.end; i++ {
		if isSentenceEnd(runes, i, para.end) {
			lastBoundary = i + 1
		}
		if i-start+1 < size {
			continue
		}
		cut := lastBoundary
		if cut <= start {
			cut = i + 1 // no sentence boundary fits, hard cut
		}
		if seg, ok := trim(runes, start, cut); ok {
			out = append(out, seg)
		}
		start = cut
		lastBoundary = -1
		i = cut - 1
	}
	if seg, ok := trim(runes, start, para.end); ok {
		out = append(out, seg)
	}
	return out
}

// isSentenceEnd reports whether position i ends a sentence.
func isSentenceEnd(runes []rune, i, limit int) bool {
	switch runes[i] {
	case '.', '!', '?':
	default:
		return false
	}
	return i+1 >= limit || unicode.IsSpace(runes[i+1])
}

// trim shrinks a range to exclude surrounding whitespace.
func trim(runes []rune, start, end int) (segment, bool) {
	for start < end && unicode.IsSpace(runes[start]) {
		start++
	}
	for end > start && unicode.IsSpace(runes[end-1]) {
		end--
	}
	if start >= end {
		return segment{}, false
	}
	return segment{start: start, end: end}, true
}

// cleanText normalises line endings, strips control characters, and
// collapses runs of blank lines.
func cleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var b strings.Builder
	b.Grow(len(text))
	newlines := 0
	for _, r := range text {
		if r == '\n' {
			newlines++
			if newlines <= 2 {
				b.WriteRune(r)
			}
			continue
		}
		newlines = 0
		if r != '\t' && unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
