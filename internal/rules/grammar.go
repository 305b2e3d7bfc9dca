package rules

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/meur/whichgame/internal/models"
)

// SentenceKind tags which phrasing of the rule grammar matched a sentence.
type SentenceKind int

const (
	Unmatched SentenceKind = iota
	BestWith
	CannotOrMore
	CannotMoreThan
	CannotWith
	CanMoreThan
	CanOrMore
	CanUpTo
	CanBetween
	CanRange
	CanWith
)

func (k SentenceKind) String() string {
	switch k {
	case BestWith:
		return "best_with"
	case CannotOrMore:
		return "cannot_or_more"
	case CannotMoreThan:
		return "cannot_more_than"
	case CannotWith:
		return "cannot_with"
	case CanMoreThan:
		return "can_more_than"
	case CanOrMore:
		return "can_or_more"
	case CanUpTo:
		return "can_up_to"
	case CanBetween:
		return "can_between"
	case CanRange:
		return "can_range"
	case CanWith:
		return "can_with"
	default:
		return "unmatched"
	}
}

const (
	canPhrase    = "can be played with"
	cannotPhrase = "cannot be played with"
)

// sentenceRule is one phrasing. A sentence matches when every guard is a
// substring and, if set, the pattern matches. Without a pattern the numbers
// following the last guard are the arguments. apply must not keep args.
type sentenceRule struct {
	kind    SentenceKind
	guards  []string
	pattern *regexp.Regexp
	apply   func(r *models.RuleEntry, args []int)
}

var numberRe = regexp.MustCompile(`\d+`)

// maxCount bounds every player count read from text or tables.
const maxCount = math.MaxInt32

type matchResult int

const (
	noMatch matchResult = iota
	matched
	// badNumber means the phrasing matched but a count was out of range.
	badNumber
)

// grammar is evaluated in order; the first matching phrasing wins.
var grammar = []sentenceRule{
	{
		kind:    BestWith,
		guards:  []string{"best", "played with"},
		pattern: regexp.MustCompile(`best.*?played with\D*(\d+)`),
		apply: func(r *models.RuleEntry, args []int) {
			n := args[0]
			r.IdealMin, r.IdealMax = intPtr(n), intPtr(n)
			r.AllowedCounts.Add(n)
		},
	},
	{
		kind:    CannotOrMore,
		guards:  []string{cannotPhrase},
		pattern: regexp.MustCompile(`cannot be played with (\d+)\s*or more`),
		apply:   func(r *models.RuleEntry, args []int) { r.LowerMax(args[0] - 1) },
	},
	{
		kind:    CannotMoreThan,
		guards:  []string{cannotPhrase},
		pattern: regexp.MustCompile(`cannot be played with more than (\d+)`),
		apply:   func(r *models.RuleEntry, args []int) { r.LowerMax(args[0]) },
	},
	{
		kind:   CannotWith,
		guards: []string{cannotPhrase},
		apply: func(r *models.RuleEntry, args []int) {
			for _, n := range args {
				r.DisallowedCounts.Add(n)
			}
		},
	},
	{
		kind:    CanMoreThan,
		guards:  []string{canPhrase},
		pattern: regexp.MustCompile(`can be played with more than (\d+)`),
		apply: func(r *models.RuleEntry, args []int) {
			r.RaiseMin(args[0] + 1)
			r.RangeAllowed = true
		},
	},
	{
		kind:    CanOrMore,
		guards:  []string{canPhrase},
		pattern: regexp.MustCompile(`can be played with (\d+)\s*or more`),
		apply: func(r *models.RuleEntry, args []int) {
			r.RaiseMin(args[0])
			r.RangeAllowed = true
		},
	},
	{
		kind:    CanUpTo,
		guards:  []string{canPhrase},
		pattern: regexp.MustCompile(`can be played with up to (\d+)`),
		apply: func(r *models.RuleEntry, args []int) {
			r.LowerMax(args[0])
			r.RangeAllowed = true
		},
	},
	{
		kind:    CanBetween,
		guards:  []string{canPhrase},
		pattern: regexp.MustCompile(`can be played with between (\d+)\s*and\s*(\d+)`),
		apply:   applyRange,
	},
	{
		kind:    CanRange,
		guards:  []string{canPhrase},
		pattern: regexp.MustCompile(`can be played with (\d+)\s*to\s*(\d+)`),
		apply:   applyRange,
	},
	{
		kind:   CanWith,
		guards: []string{canPhrase},
		apply: func(r *models.RuleEntry, args []int) {
			for _, n := range args {
				r.AllowedCounts.Add(n)
			}
		},
	},
}

func applyRange(r *models.RuleEntry, args []int) {
	r.RaiseMin(args[0])
	r.LowerMax(args[1])
	r.RangeAllowed = true
}

// match returns the arguments for a sentence.
func (sr sentenceRule) match(lower string) ([]int, matchResult) {
	for _, g := range sr.guards {
		if !strings.Contains(lower, g) {
			return nil, noMatch
		}
	}
	if sr.pattern != nil {
		m := sr.pattern.FindStringSubmatch(lower)
		if m == nil {
			return nil, noMatch
		}
		args, ok := atoiAll(m[1:])
		if !ok {
			return nil, badNumber
		}
		return args, matched
	}
	last := sr.guards[len(sr.guards)-1]
	tail := lower[strings.Index(lower, last)+len(last):]
	digits := numberRe.FindAllString(tail, -1)
	if len(digits) == 0 {
		return nil, noMatch
	}
	args, ok := atoiAll(digits)
	if !ok {
		return nil, badNumber
	}
	return args, matched
}

// ApplySentence folds one sentence into the rule and reports which phrasing
// matched. Unmatched sentences that mention a number and "cannot" produce a
// warning, as do sentences whose counts are out of range.
func ApplySentence(r *models.RuleEntry, sentence string, warnings *[]string) SentenceKind {
	lower := strings.ToLower(sentence)
	for _, sr := range grammar {
		args, res := sr.match(lower)
		switch res {
		case matched:
			sr.apply(r, args)
			return sr.kind
		case badNumber:
			*warnings = append(*warnings, unparsed(sentence))
			return Unmatched
		}
	}
	if numberRe.MatchString(lower) && strings.Contains(lower, "cannot") {
		*warnings = append(*warnings, unparsed(sentence))
	}
	return Unmatched
}

func unparsed(sentence string) string {
	return `Unparsed rule: "` + sentence + `".`
}

// atoiAll converts every digit run, failing if any exceeds maxCount.
func atoiAll(ss []string) ([]int, bool) {
	out := make([]int, 0, len(ss))
	for _, s := range ss {
		n, err := strconv.Atoi(s)
		if err != nil || n > maxCount {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

func intPtr(n int) *int { return &n }
