// Package prompt assembles retrieved résumé fragments and a user query
// into an intent-specific language-model prompt under a context budget.
package prompt

import (
	"fmt"
	"strings"

	"github.com/hirelens/hirelens/internal/model"
	appErr "github.com/hirelens/hirelens/internal/pkg/errors"
)

type Assembler struct {
	maxContextChars int
}

func NewAssembler(maxContextChars int) *Assembler {
	if maxContextChars <= 0 {
		maxContextChars = 24000
	}
	return &Assembler{maxContextChars: maxContextChars}
}

// Assemble renders the prompt for the intent. Chunks must arrive ordered
// by descending priority. When the combined fragments exceed the budget,
// the lowest-priority chunks are dropped whole; the best chunk of each
// candidate (for rank and compare) is mandatory, and if the mandatory set
// alone cannot fit the call fails with ErrContextTooLarge.
func (a *Assembler) Assemble(intent model.QueryIntent, query string, chunks []model.ScoredChunk) (string, error) {
	if len(chunks) == 0 {
		return "", fmt.Errorf("%w", appErr.ErrEmptyKnowledgeBase)
	}
	template, err := templateFor(intent)
	if err != nil {
		return "", err
	}

	kept, err := a.fit(intent, chunks)
	if err != nil {
		return "", err
	}
	context := formatFragments(kept)
	return fmt.Sprintf(template, context, query), nil
}

func templateFor(intent model.QueryIntent) (string, error) {
	switch intent {
	case model.IntentRank:
		return rankTemplate, nil
	case model.IntentChat:
		return chatTemplate, nil
	case model.IntentCompare:
		return compareTemplate, nil
	}
	return "", fmt.Errorf("%w: unknown intent %q", appErr.ErrInvalid, intent)
}

func (a *Assembler) fit(intent model.QueryIntent, chunks []model.ScoredChunk) ([]model.ScoredChunk, error) {
	mandatory := mandatorySet(intent, chunks)

	kept := make([]model.ScoredChunk, len(chunks))
	copy(kept, chunks)
	total := 0
	for _, chunk := range kept {
		total += fragmentLen(chunk)
	}
	for total > a.maxContextChars {
		dropped := false
		for i := len(kept) - 1; i >= 0; i-- {
			if mandatory[chunkKey(kept[i])] {
				continue
			}
			total -= fragmentLen(kept[i])
			kept = append(kept[:i], kept[i+1:]...)
			dropped = true
			break
		}
		if !dropped {
			return nil, fmt.Errorf("%w: %d mandatory fragments need %d chars, limit is %d",
				appErr.ErrContextTooLarge, len(kept), total, a.maxContextChars)
		}
	}
	return kept, nil
}

// mandatorySet marks the highest-priority chunk per candidate for rank
// and compare, and the single top chunk for chat.
func mandatorySet(intent model.QueryIntent, chunks []model.ScoredChunk) map[string]bool {
	mandatory := map[string]bool{}
	if intent == model.IntentChat {
		mandatory[chunkKey(chunks[0])] = true
		return mandatory
	}
	seen := map[string]bool{}
	for _, chunk := range chunks {
		if seen[chunk.ResumeID] {
			continue
		}
		seen[chunk.ResumeID] = true
		mandatory[chunkKey(chunk)] = true
	}
	return mandatory
}

func chunkKey(chunk model.ScoredChunk) string {
	return fmt.Sprintf("%s#%d", chunk.ResumeID, chunk.Position)
}

func fragmentLen(chunk model.ScoredChunk) int {
	return len(formatFragment(chunk)) + 2
}

func formatFragments(chunks []model.ScoredChunk) string {
	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		parts = append(parts, formatFragment(chunk))
	}
	return strings.Join(parts, "\n\n")
}

func formatFragment(chunk model.ScoredChunk) string {
	return fmt.Sprintf("--- RESUME FRAGMENT: %s ---\n%s\n--- END FRAGMENT: %s ---",
		chunk.FileName, chunk.Content, chunk.FileName)
}
