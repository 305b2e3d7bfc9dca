package main

import (
	"context"
	"flag"

	"github.com/meur/whichgame/internal/logging"
	"github.com/meur/whichgame/internal/models"
	"github.com/meur/whichgame/internal/preferences"
	"github.com/meur/whichgame/internal/rules"
	"github.com/meur/whichgame/internal/session"
	"github.com/meur/whichgame/internal/storage"
	"github.com/meur/whichgame/internal/tabular"
)

func main() {
	dbPath := flag.String("db", "./whichgame.db", "SQLite database path")
	prefsPath := flag.String("prefs", "./seeds/preferences.csv", "Preferences file (.csv or .json)")
	rulesPath := flag.String("rules", "", "Rules file (.txt, .csv or .json)")
	flag.Parse()

	logger := logging.With("seed")

	store, err := storage.New(*dbPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open database")
	}
	defer store.Close()

	srcs, err := readSources(*prefsPath, *rulesPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to read sources")
	}

	if err := store.SaveSources(context.Background(), srcs...); err != nil {
		logger.Fatal().Err(err).Msg("Failed to store sources")
	}
	for _, src := range srcs {
		logger.Info().
			Str("kind", src.Kind).
			Str("format", src.Format).
			Str("revision", src.Revision).
			Msg("Seeded source")
	}
}

// readSources loads and parses each file so nothing unusable is stored.
func readSources(prefsPath, rulesPath string) ([]*models.Source, error) {
	prefSrc, err := session.ReadSourceFile(models.SourcePreferences, prefsPath)
	if err != nil {
		return nil, err
	}
	table, err := tabular.Decode(prefSrc.Format, []byte(prefSrc.Body))
	if err != nil {
		return nil, err
	}
	prefs, err := preferences.Parse(table)
	if err != nil {
		return nil, err
	}
	logWarnings("preferences", prefs.Warnings)
	srcs := []*models.Source{&prefSrc}

	if rulesPath == "" {
		return srcs, nil
	}
	rulesSrc, err := session.ReadSourceFile(models.SourceRules, rulesPath)
	if err != nil {
		return nil, err
	}
	if rulesSrc.Format == models.FormatText {
		logWarnings("rules", rules.ParseText(rulesSrc.Body).Warnings)
	} else {
		rt, err := tabular.Decode(rulesSrc.Format, []byte(rulesSrc.Body))
		if err != nil {
			return nil, err
		}
		res, err := rules.ParseTable(rt)
		if err != nil {
			return nil, err
		}
		logWarnings("rules", res.Warnings)
	}
	return append(srcs, &rulesSrc), nil
}

func logWarnings(kind string, warnings []string) {
	for _, w := range warnings {
		logging.Warn().Str("source", kind).Msg(w)
	}
}
