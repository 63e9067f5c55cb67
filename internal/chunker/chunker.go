// Package chunker groups structural elements into section-aligned chunks
// bounded by a maximum character size.
package chunker

import (
	"strings"

	"github.com/hirelens/hirelens/internal/model"
)

type Chunker struct {
	maxChars int
}

func New(maxChars int) *Chunker {
	if maxChars <= 0 {
		maxChars = 1000
	}
	return &Chunker{maxChars: maxChars}
}

// Chunk scans the elements in order. A title element opens a new section;
// everything up to the next title accumulates into it. Sections larger
// than the maximum split at element boundaries, each part keeping the
// section title. Content before the first title lands in an implicit
// untitled preamble section. Pure function, safe to call repeatedly.
func (c *Chunker) Chunk(elements []model.Element) []model.Chunk {
	if len(elements) == 0 {
		return nil
	}
	resumeID := elements[0].ResumeID

	var chunks []model.Chunk
	var buf []string
	var bufLen int
	section := ""

	flush := func() {
		if len(buf) == 0 {
			return
		}
		content := strings.Join(buf, "\n")
		chunks = append(chunks, model.Chunk{
			ResumeID:   resumeID,
			Position:   len(chunks),
			Section:    section,
			Content:    content,
			TokenCount: estimateTokens(content),
		})
		buf = nil
		bufLen = 0
	}

	for _, elem := range elements {
		if elem.Kind == model.ElementTitle {
			flush()
			section = elem.Text
			buf = append(buf, elem.Text)
			bufLen = len(elem.Text)
			continue
		}
		need := len(elem.Text)
		if bufLen > 0 {
			need++ // joining newline
		}
		if bufLen > 0 && bufLen+need > c.maxChars {
			flush()
		}
		buf = append(buf, elem.Text)
		bufLen += len(elem.Text)
		if len(buf) > 1 {
			bufLen++
		}
		// a single element larger than the maximum still becomes its own
		// chunk, content is never dropped
		if bufLen > c.maxChars {
			flush()
		}
	}
	flush()
	return chunks
}

// estimateTokens is a cheap heuristic: words for latin text, one token
// per rune beyond ascii.
func estimateTokens(text string) int {
	count := 0
	for _, r := range text {
		if r > 127 {
			count++
		}
	}
	count += len(strings.Fields(text))
	if count == 0 && len(text) > 0 {
		return 1
	}
	return count
}
