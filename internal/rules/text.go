// Package rules builds the player-count constraint model, either from free
// rule prose (one paragraph per game) or from a structured rules table.
package rules

import (
	"errors"
	"regexp"
	"strings"

	"github.com/meur/whichgame/internal/models"
	"github.com/meur/whichgame/internal/normalize"
)

var (
	ErrMissingHeader     = errors.New("no header row found for game rules")
	ErrMissingGameColumn = errors.New("rules must include a game column")
)

// Result is the parsed rules map plus any non-fatal warnings, in order.
type Result struct {
	Rules    models.Rules `json:"rules"`
	Warnings []string     `json:"warnings"`
}

var (
	blankLineRe   = regexp.MustCompile(`\r?\n\s*\r?\n`)
	newlineRe     = regexp.MustCompile(`\r?\n`)
	sentenceEndRe = regexp.MustCompile(`[.!?]`)
	leadNameRe    = regexp.MustCompile(`(?i)^(.*?)\s+(can|cannot|is)\b`)
)

// ParseText interprets rule prose. Paragraphs are separated by blank lines and
// each one describes a single game, e.g.
//
//	Dota 2 - Dota 2 cannot be played with more than 10 players.
func ParseText(text string) *Result {
	res := &Result{Rules: models.Rules{}}

	for _, block := range splitBlocks(text) {
		name, content := splitRuleBlock(block)
		if name == "" {
			res.Warnings = append(res.Warnings, "Could not determine a game name in rule text.")
			continue
		}

		rule := models.NewRuleEntry(name)
		rule.Notes = content
		for _, sentence := range splitSentences(content) {
			ApplySentence(rule, sentence, &res.Warnings)
		}
		res.Rules[normalize.Name(name)] = rule
	}

	return res
}

func splitBlocks(text string) []string {
	var blocks []string
	for _, b := range blankLineRe.Split(text, -1) {
		if b = strings.TrimSpace(b); b != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func splitSentences(content string) []string {
	var out []string
	for _, s := range sentenceEndRe.Split(newlineRe.ReplaceAllString(content, " "), -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// splitRuleBlock separates the leading game name from the rule content.
// For "Name - Name can be played with ..." the split is placed where the
// remainder restates the name, so names containing " - " survive.
func splitRuleBlock(block string) (name, content string) {
	normalized := strings.Join(strings.Fields(block), " ")
	parts := strings.Split(normalized, " - ")
	if len(parts) == 1 {
		return guessGameName(normalized), normalized
	}

	for i := len(parts) - 2; i >= 0; i-- {
		candidate := strings.TrimSpace(strings.Join(parts[:i+1], " - "))
		remainder := strings.TrimSpace(strings.Join(parts[i+1:], " - "))
		if candidate == "" || remainder == "" {
			continue
		}
		if strings.HasPrefix(normalize.Loose(remainder), normalize.Loose(candidate)) {
			return candidate, remainder
		}
	}

	return strings.TrimSpace(parts[0]), strings.TrimSpace(strings.Join(parts[1:], " - "))
}

func guessGameName(text string) string {
	if m := leadNameRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	name, _, _ := strings.Cut(text, ".")
	return strings.TrimSpace(name)
}
