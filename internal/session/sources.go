package session

import (
	"fmt"
	"os"

	"github.com/meur/whichgame/internal/models"
	"github.com/meur/whichgame/internal/tabular"
)

// SourcesFrom decodes stored raw sources. rulesSrc may be nil; text rules are
// kept as prose, tabular rules are decoded into a table.
func SourcesFrom(prefSrc models.Source, rulesSrc *models.Source) (Sources, error) {
	table, err := tabular.Decode(prefSrc.Format, []byte(prefSrc.Body))
	if err != nil {
		return Sources{}, fmt.Errorf("failed to decode preferences source: %w", err)
	}
	src := Sources{Preferences: table}

	if rulesSrc == nil {
		return src, nil
	}
	if rulesSrc.Format == models.FormatText {
		src.RulesText = rulesSrc.Body
		return src, nil
	}
	rt, err := tabular.Decode(rulesSrc.Format, []byte(rulesSrc.Body))
	if err != nil {
		return Sources{}, fmt.Errorf("failed to decode rules source: %w", err)
	}
	src.RulesTable = &rt
	return src, nil
}

// ReadSourceFile reads a source from disk, guessing its format from the
// file extension.
func ReadSourceFile(kind, path string) (models.Source, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return models.Source{}, fmt.Errorf("failed to read %s source: %w", kind, err)
	}
	return models.Source{
		Kind:   kind,
		Format: tabular.FormatFromPath(path),
		Body:   string(body),
	}, nil
}
