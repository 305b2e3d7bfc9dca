// Command whichgame ranks games for a group from local data files.
//
//	whichgame -prefs prefs.csv -rules rules.txt -players Alice,Bob,Carol
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/meur/whichgame/internal/logging"
	"github.com/meur/whichgame/internal/models"
	"github.com/meur/whichgame/internal/preferences"
	"github.com/meur/whichgame/internal/recommend"
	"github.com/meur/whichgame/internal/rules"
	"github.com/meur/whichgame/internal/session"
	"github.com/meur/whichgame/internal/tabular"
)

func main() {
	prefsPath := flag.String("prefs", "", "Preferences file (.csv or .json)")
	rulesPath := flag.String("rules", "", "Rules file (.txt, .csv or .json)")
	players := flag.String("players", "", "Comma-separated selected players")
	missing := flag.Float64("missing", recommend.DefaultMissingScore, "Score used for players without one")
	asJSON := flag.Bool("json", false, "Print the result as JSON")
	flag.Parse()

	logging.Init(logging.Config{Format: "console"})

	if *prefsPath == "" {
		logging.Fatal().Msg("-prefs is required")
	}

	prefs, rs, warnings, err := load(*prefsPath, *rulesPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load data")
	}
	for _, w := range warnings {
		logging.Warn().Msg(w)
	}

	res := recommend.Recommend(prefs, rs, splitPlayers(*players), *missing)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			logging.Fatal().Err(err).Msg("Failed to encode result")
		}
		return
	}
	printResult(res)
}

func load(prefsPath, rulesPath string) (models.Preferences, models.Rules, []string, error) {
	prefSrc, err := session.ReadSourceFile(models.SourcePreferences, prefsPath)
	if err != nil {
		return nil, nil, nil, err
	}
	table, err := tabular.Decode(prefSrc.Format, []byte(prefSrc.Body))
	if err != nil {
		return nil, nil, nil, err
	}
	pres, err := preferences.Parse(table)
	if err != nil {
		return nil, nil, nil, err
	}
	warnings := pres.Warnings

	if rulesPath == "" {
		return pres.Preferences, nil, warnings, nil
	}
	rulesSrc, err := session.ReadSourceFile(models.SourceRules, rulesPath)
	if err != nil {
		return nil, nil, nil, err
	}
	var rres *rules.Result
	if rulesSrc.Format == models.FormatText {
		rres = rules.ParseText(rulesSrc.Body)
	} else {
		rt, err := tabular.Decode(rulesSrc.Format, []byte(rulesSrc.Body))
		if err != nil {
			return nil, nil, nil, err
		}
		if rres, err = rules.ParseTable(rt); err != nil {
			return nil, nil, nil, err
		}
	}
	return pres.Preferences, rres.Rules, append(warnings, rres.Warnings...), nil
}

func splitPlayers(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printResult(res recommend.Result) {
	if res.Reason != "" {
		fmt.Println(res.Reason)
	}
	for i, rec := range res.Recommendations {
		line := fmt.Sprintf("%2d. %-28s total %-5g avg %.2f", i+1, rec.Name, rec.TotalScore, rec.AverageScore)
		if rec.IdealRange != "" {
			line += fmt.Sprintf("  ideal %s", rec.IdealRange)
			if rec.Bonus > 0 {
				line += " (+1)"
			}
		}
		fmt.Println(line)
	}
	if len(res.Excluded) > 0 {
		fmt.Println()
		fmt.Println("Not eligible:")
		for _, ex := range res.Excluded {
			fmt.Printf("  %s: %s\n", ex.Name, strings.Join(ex.Reasons, "; "))
		}
	}
}
