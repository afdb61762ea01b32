package guide

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mbenedetti/viaggio/internal/domain"
)

var (
	spaceRuns   = regexp.MustCompile(`[ \t]+`)
	newlineRuns = regexp.MustCompile(`\n{3,}`)
)

// normalizeText collapses runs of spaces and tabs and caps consecutive
// blank lines at one, preserving paragraph structure.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = spaceRuns.ReplaceAllString(s, " ")
	s = newlineRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// splitSentences cuts text after sentence-ending punctuation followed by
// whitespace. Newlines also end a sentence so list items and headings
// stay whole.
func splitSentences(s string) []string {
	var sentences []string
	start := 0
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		boundary := r == '\n' ||
			((r == '.' || r == '!' || r == '?') && i+1 < len(runes) && (runes[i+1] == ' ' || runes[i+1] == '\n'))
		if !boundary {
			continue
		}
		if sent := strings.TrimSpace(string(runes[start : i+1])); sent != "" {
			sentences = append(sentences, sent)
		}
		start = i + 1
	}
	if sent := strings.TrimSpace(string(runes[start:])); sent != "" {
		sentences = append(sentences, sent)
	}
	return sentences
}

// Packer trims guide excerpts to fit the synthesizer's context budget:
// a per-source cap and an overall cap, both in characters.
type Packer struct {
	maxDocChars   int
	maxTotalChars int
}

// NewPacker constructs a Packer with the given per-source and total
// character budgets.
func NewPacker(maxDocChars, maxTotalChars int) *Packer {
	return &Packer{maxDocChars: maxDocChars, maxTotalChars: maxTotalChars}
}

// Pack normalizes and trims excerpts, keeping whole sentences greedily
// until a budget runs out. An excerpt whose first sentence alone exceeds
// the per-source budget contributes that sentence hard-truncated, so a
// source is never dropped just for having long sentences. Excerpts past
// the total budget are dropped; input order is preserved.
func (p *Packer) Pack(excerpts []domain.GuideExcerpt) []domain.GuideExcerpt {
	remaining := p.maxTotalChars
	var packed []domain.GuideExcerpt

	for _, ex := range excerpts {
		if remaining <= 0 {
			break
		}
		budget := min(p.maxDocChars, remaining)
		text := p.packOne(normalizeText(ex.Text), budget)
		if text == "" {
			continue
		}
		remaining -= len(text)
		packed = append(packed, domain.GuideExcerpt{Source: ex.Source, Text: text})
	}
	return packed
}

func (p *Packer) packOne(text string, budget int) string {
	if text == "" || budget <= 0 {
		return ""
	}
	if len(text) <= budget {
		return text
	}

	var b strings.Builder
	for _, sent := range splitSentences(text) {
		need := len(sent)
		if b.Len() > 0 {
			need++ // joining space
		}
		if b.Len()+need > budget {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(sent)
	}
	if b.Len() == 0 {
		// single oversized sentence: cut it rather than drop the source.
		// Budgets are in bytes everywhere, so back up to the previous
		// rune boundary instead of slicing mid-rune.
		if budget < len(text) {
			cut := budget
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			text = text[:cut]
		}
		return strings.TrimSpace(text)
	}
	return b.String()
}
