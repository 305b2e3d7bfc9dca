// Package session holds the loaded data for one running instance: the
// immutable base preferences and rules, the working preferences that admin
// edits mutate, and the admin capability tokens.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/meur/whichgame/internal/models"
	"github.com/meur/whichgame/internal/overrides"
	"github.com/meur/whichgame/internal/preferences"
	"github.com/meur/whichgame/internal/recommend"
	"github.com/meur/whichgame/internal/rules"
)

var (
	ErrNotLoaded     = errors.New("data not loaded")
	ErrLocked        = errors.New("incorrect passcode")
	ErrUnauthorized  = errors.New("admin token not recognized")
	ErrUnknownPlayer = errors.New("player is not in the roster")
)

// OverrideStore persists the override document as a single blob.
type OverrideStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, doc []byte) error
	Clear(ctx context.Context) error
}

// Sources is everything a data load is parsed from. RulesText wins over
// RulesTable when both are set.
type Sources struct {
	Preferences models.Table
	RulesText   string
	RulesTable  *models.Table
}

// Options configures a Session.
type Options struct {
	Passcode       string
	BcryptCost     int
	MissingDefault float64
	Logger         zerolog.Logger
}

// AdminToken is the capability returned by Unlock. Only tokens issued by the
// session are accepted by admin operations.
type AdminToken struct {
	id string
}

// String returns the token's wire form.
func (t AdminToken) String() string { return t.id }

// Session is safe for concurrent use.
type Session struct {
	store          OverrideStore
	passHash       []byte
	missingDefault float64
	logger         zerolog.Logger

	mu       sync.RWMutex
	base     models.Preferences
	working  models.Preferences
	rules    models.Rules
	players  []string
	warnings []string
	tokens   map[string]struct{}
}

// New creates an empty session. Call Load before recommending.
func New(store OverrideStore, opts Options) (*Session, error) {
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Passcode), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin passcode: %w", err)
	}
	return &Session{
		store:          store,
		passHash:       hash,
		missingDefault: opts.MissingDefault,
		logger:         opts.Logger,
		tokens:         map[string]struct{}{},
	}, nil
}

// Load parses src and replaces the session data. Parsing finishes before any
// state changes, so a failed load leaves the previous data in place.
func (s *Session) Load(ctx context.Context, src Sources) error {
	prefRes, err := preferences.Parse(src.Preferences)
	if err != nil {
		return fmt.Errorf("failed to parse preferences: %w", err)
	}

	ruleRes := &rules.Result{Rules: models.Rules{}}
	switch {
	case src.RulesText != "":
		ruleRes = rules.ParseText(src.RulesText)
	case src.RulesTable != nil:
		ruleRes, err = rules.ParseTable(*src.RulesTable)
		if err != nil {
			return fmt.Errorf("failed to parse rules: %w", err)
		}
	}

	working := prefRes.Preferences.Clone()
	if s.store != nil {
		data, err := s.store.Load(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Failed to read stored overrides, ignoring them")
		} else {
			overrides.Apply(working, overrides.Decode(data))
		}
	}

	warnings := append(append([]string{}, prefRes.Warnings...), ruleRes.Warnings...)
	for _, w := range warnings {
		s.logger.Warn().Str("warning", w).Msg("Data load warning")
	}

	s.mu.Lock()
	s.base = prefRes.Preferences
	s.working = working
	s.rules = ruleRes.Rules
	s.players = prefRes.Players
	s.warnings = warnings
	s.mu.Unlock()

	s.logger.Info().
		Int("games", len(working)).
		Int("rules", len(ruleRes.Rules)).
		Int("players", len(prefRes.Players)).
		Int("warnings", len(warnings)).
		Msg("Data loaded")
	return nil
}

// Loaded reports whether data has been loaded.
func (s *Session) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.working != nil
}

// Players returns the roster in alphabetical order.
func (s *Session) Players() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.players...)
}

// Warnings returns the warnings of the last successful load.
func (s *Session) Warnings() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.warnings...)
}

// Recommend ranks games for the selected players against the working preferences.
func (s *Session) Recommend(selected []string) recommend.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return recommend.Recommend(s.working, s.rules, selected, s.missingDefault)
}

// Game is the combined view of one game's preferences and rule.
type Game struct {
	Key    string             `json:"key"`
	Name   string             `json:"name"`
	Scores map[string]float64 `json:"scores"`
	Rule   *models.RuleEntry  `json:"rule,omitempty"`
}

// Games lists every known game sorted by display name.
func (s *Session) Games() []Game {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := map[string]struct{}{}
	for k := range s.working {
		keys[k] = struct{}{}
	}
	for k := range s.rules {
		keys[k] = struct{}{}
	}

	games := make([]Game, 0, len(keys))
	for k := range keys {
		g := Game{Key: k, Name: k, Scores: map[string]float64{}, Rule: s.rules[k]}
		if p := s.working[k]; p != nil {
			g.Name = p.Name
			for player, score := range p.Scores {
				g.Scores[player] = score
			}
		}
		if g.Rule != nil && g.Rule.Name != "" {
			g.Name = g.Rule.Name
		}
		games = append(games, g)
	}
	sortByName(games, func(g Game) string { return g.Name })
	return games
}

func sortByName[T any](items []T, name func(T) string) {
	coll := collate.New(language.English)
	sort.SliceStable(items, func(i, j int) bool {
		return coll.CompareString(name(items[i]), name(items[j])) < 0
	})
}

// Unlock checks the admin passcode and issues a token on success.
func (s *Session) Unlock(passcode string) (AdminToken, error) {
	if err := bcrypt.CompareHashAndPassword(s.passHash, []byte(passcode)); err != nil {
		return AdminToken{}, ErrLocked
	}
	tok := AdminToken{id: uuid.New().String()}

	s.mu.Lock()
	s.tokens[tok.id] = struct{}{}
	s.mu.Unlock()

	s.logger.Info().Msg("Admin unlocked")
	return tok, nil
}

// Authorize turns a token's wire form back into a token previously issued by Unlock.
func (s *Session) Authorize(id string) (AdminToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.tokens[id]; !ok || id == "" {
		return AdminToken{}, ErrUnauthorized
	}
	return AdminToken{id: id}, nil
}

// must be called with mu held
func (s *Session) checkLocked(tok AdminToken) error {
	if _, ok := s.tokens[tok.id]; !ok {
		return ErrUnauthorized
	}
	if s.working == nil {
		return ErrNotLoaded
	}
	return nil
}
