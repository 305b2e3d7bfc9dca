// Package recommend ranks the games a group of selected players can play.
//
// Every candidate game (any game with preferences or rules) is checked for
// player-count eligibility, then scored; a single 0 from any selected player
// vetoes the game. The engine never fails: when nothing can be recommended
// the result carries a human-readable reason instead.
package recommend

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/meur/whichgame/internal/models"
	"github.com/meur/whichgame/internal/normalize"
)

const (
	// MinSelectedPlayers is the smallest group the engine will rank games for.
	MinSelectedPlayers = 3

	// DefaultMissingScore is used for a player with no stored score.
	DefaultMissingScore = 1

	// LeagueKey is only playable with LeagueMinPlayers or more.
	LeagueKey        = "clubs - league"
	LeagueMinPlayers = 5

	priorityGroupSize = 5
)

// Reasons reported with an empty result.
const (
	ReasonNotLoaded     = "Data not loaded."
	ReasonTooFewPlayers = "Select at least 3 players."
	ReasonNoEligible    = "No eligible games."
)

// fivePlayerPriority titles jump to the top when exactly five play.
var fivePlayerPriority = map[string]struct{}{
	"valorant":      {},
	"counterstrike": {},
	"dota 2":        {},
}

// Result is the ranked output. Reason is set only when Recommendations is empty.
type Result struct {
	Recommendations []models.Recommendation `json:"recommendations"`
	Excluded        []models.Exclusion      `json:"excluded"`
	Reason          string                  `json:"reason,omitempty"`
}

// Top returns the first pick, if any.
func (r Result) Top() (models.Recommendation, bool) {
	if len(r.Recommendations) == 0 {
		return models.Recommendation{}, false
	}
	return r.Recommendations[0], true
}

// Others returns every eligible game after the top pick.
func (r Result) Others() []models.Recommendation {
	if len(r.Recommendations) < 2 {
		return nil
	}
	return r.Recommendations[1:]
}

// Recommend ranks candidate games for the selected players. rules may be nil.
func Recommend(prefs models.Preferences, rules models.Rules, selected []string, missingDefault float64) Result {
	if prefs == nil {
		return Result{Reason: ReasonNotLoaded}
	}
	if len(selected) < MinSelectedPlayers {
		return Result{Reason: ReasonTooFewPlayers}
	}

	count := len(selected)
	var (
		recs     []models.Recommendation
		excluded []models.Exclusion
	)

	for _, key := range candidateKeys(prefs, rules) {
		pref := prefs[key]
		rule := rules[key]
		name := displayName(key, pref, rule)

		if key == LeagueKey && count < LeagueMinPlayers {
			excluded = append(excluded, models.Exclusion{
				Name:    name,
				Reasons: []string{fmt.Sprintf("needs at least %d players", LeagueMinPlayers)},
			})
			continue
		}

		if reasons := eligibility(rule, count); len(reasons) > 0 {
			excluded = append(excluded, models.Exclusion{Name: name, Reasons: reasons})
			continue
		}

		total, vetoedBy, vetoed := score(pref, selected, missingDefault)
		if vetoed {
			excluded = append(excluded, models.Exclusion{
				Name:    name,
				Reasons: []string{vetoedBy + " vetoed"},
			})
			continue
		}

		rec := models.Recommendation{
			Name:         name,
			TotalScore:   total,
			AverageScore: total / float64(count),
		}
		if rule != nil && rule.IdealMin != nil && rule.IdealMax != nil {
			rec.IdealRange = fmt.Sprintf("%d-%d", *rule.IdealMin, *rule.IdealMax)
			if count >= *rule.IdealMin && count <= *rule.IdealMax {
				rec.Bonus = 1
			}
		}
		recs = append(recs, rec)
	}

	coll := collate.New(language.English)
	rank(recs, coll)
	if count == priorityGroupSize {
		recs = promotePriority(recs)
	}
	sort.SliceStable(excluded, func(i, j int) bool {
		return coll.CompareString(excluded[i].Name, excluded[j].Name) < 0
	})

	res := Result{Recommendations: recs, Excluded: excluded}
	if len(recs) == 0 {
		res.Reason = ReasonNoEligible
	}
	return res
}

// candidateKeys is the sorted union of preference and rule keys.
func candidateKeys(prefs models.Preferences, rules models.Rules) []string {
	seen := make(map[string]struct{}, len(prefs)+len(rules))
	keys := make([]string, 0, len(prefs)+len(rules))
	for k := range prefs {
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	for k := range rules {
		if _, ok := seen[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func displayName(key string, pref *models.PreferenceEntry, rule *models.RuleEntry) string {
	if rule != nil && rule.Name != "" {
		return rule.Name
	}
	if pref != nil && pref.Name != "" {
		return pref.Name
	}
	return key
}

// eligibility returns why count players cannot play under rule; nil means eligible.
func eligibility(rule *models.RuleEntry, count int) []string {
	if rule == nil {
		return nil
	}

	var reasons []string
	if rule.DisallowedCounts.Has(count) {
		return []string{fmt.Sprintf("%d players not allowed", count)}
	}

	explicit := rule.AllowedCounts.Has(count)
	if len(rule.AllowedCounts) > 0 && !explicit {
		inRange := rule.RangeAllowed && count >= rule.MinPlayers &&
			(rule.MaxPlayers == nil || count <= *rule.MaxPlayers)
		if !inRange {
			return []string{fmt.Sprintf("rules do not allow %d players", count)}
		}
	}

	if !explicit {
		if count < rule.MinPlayers {
			reasons = append(reasons, fmt.Sprintf("needs at least %d players", rule.MinPlayers))
		}
		if rule.MaxPlayers != nil && count > *rule.MaxPlayers {
			reasons = append(reasons, fmt.Sprintf("max %d players", *rule.MaxPlayers))
		}
	}
	if rule.OnlineCap != nil && *rule.OnlineCap > 0 && count > *rule.OnlineCap {
		reasons = append(reasons, fmt.Sprintf("online cap %d", *rule.OnlineCap))
	}
	return reasons
}

// score sums the selected players' scores in order, stopping at the first veto.
func score(pref *models.PreferenceEntry, selected []string, missingDefault float64) (total float64, vetoedBy string, vetoed bool) {
	for _, player := range selected {
		s, ok := pref.Score(player)
		if !ok {
			s = missingDefault
		}
		if s == 0 {
			return 0, player, true
		}
		total += s
	}
	return total, "", false
}

func rank(recs []models.Recommendation, coll *collate.Collator) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if wa, wb := a.TotalScore+float64(a.Bonus), b.TotalScore+float64(b.Bonus); wa != wb {
			return wa > wb
		}
		if a.AverageScore != b.AverageScore {
			return a.AverageScore > b.AverageScore
		}
		return coll.CompareString(a.Name, b.Name) < 0
	})
}

// promotePriority moves the best-ranked priority title to the front without
// reordering the rest.
func promotePriority(recs []models.Recommendation) []models.Recommendation {
	for i, rec := range recs {
		if _, ok := fivePlayerPriority[normalize.Name(rec.Name)]; !ok {
			continue
		}
		if i == 0 {
			return recs
		}
		out := make([]models.Recommendation, 0, len(recs))
		out = append(out, rec)
		out = append(out, recs[:i]...)
		return append(out, recs[i+1:]...)
	}
	return recs
}
