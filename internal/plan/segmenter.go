// Package plan turns raw generated text into stable, navigable pages and
// renders them with their navigation affordances.
package plan

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/domain"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/providers/llm"
)

var (
	thinkBlockRe  = regexp.MustCompile(`(?s)<think>.*?</think>`)
	codeFenceRe   = regexp.MustCompile("(?i)```[a-z]*")
	blankRunsRe   = regexp.MustCompile(`\n{3,}`)
	workoutMarkRe = regexp.MustCompile(`(?m)^(?:📅|💡)`)
	mealMarkRe    = regexp.MustCompile(`(?m)^(?:🍳|🍲|🥗|🥪|🛒|💡)`)
)

// noiseTokens are model artifacts stripped before segmentation.
var noiseTokens = []string{"###", "SPLIT", "Menu:"}

// Segmenter converts raw model output into an ordered, bounded page sequence.
// It never fails: the worst case for non-empty input is a single page of the
// cleaned text, hard-chunked when oversized.
type Segmenter struct {
	maxPageBytes int
	minPageRunes int
}

func NewSegmenter(maxPageBytes, minPageRunes int) *Segmenter {
	if maxPageBytes <= 0 {
		maxPageBytes = 4096
	}
	if minPageRunes < 0 {
		minPageRunes = 0
	}
	return &Segmenter{maxPageBytes: maxPageBytes, minPageRunes: minPageRunes}
}

// Split segments raw text for the given content type. Strategies are tried in
// order: the explicit delimiter, then the content-type section markers, then a
// hard chunk at the transport limit. Deterministic for identical input.
func (s *Segmenter) Split(ct domain.ContentType, raw string) []string {
	text := sanitize(raw)
	if text == "" {
		return nil
	}

	pages := splitDelimiter(text)
	if len(pages) < 2 {
		pages = splitMarkers(ct, text)
	}
	if len(pages) == 0 {
		pages = []string{text}
	}

	pages = s.dropNoise(pages)

	// Size invariant holds regardless of which strategy produced the pages.
	var bounded []string
	for _, p := range pages {
		bounded = append(bounded, s.hardChunk(p)...)
	}
	return bounded
}

// sanitize strips model artifacts while preserving real content.
func sanitize(raw string) string {
	text := thinkBlockRe.ReplaceAllString(raw, "")
	text = codeFenceRe.ReplaceAllString(text, "")
	for _, tok := range noiseTokens {
		text = strings.ReplaceAll(text, tok, "")
	}
	text = blankRunsRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func splitDelimiter(text string) []string {
	if !strings.Contains(text, llm.PageBreakToken) {
		return nil
	}
	parts := strings.Split(text, llm.PageBreakToken)
	var pages []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			pages = append(pages, p)
		}
	}
	return pages
}

// splitMarkers cuts immediately before each section marker so the marker stays
// attached to the page that follows it.
func splitMarkers(ct domain.ContentType, text string) []string {
	re := workoutMarkRe
	if ct == domain.ContentNutrition {
		re = mealMarkRe
	}
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) < 2 && (len(locs) == 0 || locs[0][0] == 0) {
		return nil
	}

	cuts := make([]int, 0, len(locs)+1)
	if len(locs) == 0 || locs[0][0] != 0 {
		cuts = append(cuts, 0)
	}
	for _, loc := range locs {
		cuts = append(cuts, loc[0])
	}

	var pages []string
	for i, start := range cuts {
		end := len(text)
		if i+1 < len(cuts) {
			end = cuts[i+1]
		}
		if p := strings.TrimSpace(text[start:end]); p != "" {
			pages = append(pages, p)
		}
	}
	return pages
}

// dropNoise removes segments under the minimum length, treating them as
// editorial scraps rather than content. The last remaining segment always
// survives so the result is never empty.
func (s *Segmenter) dropNoise(pages []string) []string {
	var kept []string
	for _, p := range pages {
		if utf8.RuneCountInString(p) >= s.minPageRunes {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 && len(pages) > 0 {
		kept = pages[len(pages)-1:]
	}
	return kept
}

// hardChunk splits one page at rune-safe byte boundaries when it exceeds the
// transport limit. All content is preserved.
func (s *Segmenter) hardChunk(page string) []string {
	if len(page) <= s.maxPageBytes {
		return []string{page}
	}
	var chunks []string
	var b strings.Builder
	for _, r := range page {
		if b.Len()+utf8.RuneLen(r) > s.maxPageBytes {
			chunks = append(chunks, b.String())
			b.Reset()
		}
		b.WriteRune(r)
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}
