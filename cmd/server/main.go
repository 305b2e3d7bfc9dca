package main

import (
	"context"
	"flag"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/meur/whichgame/internal/api"
	"github.com/meur/whichgame/internal/config"
	"github.com/meur/whichgame/internal/logging"
	"github.com/meur/whichgame/internal/models"
	"github.com/meur/whichgame/internal/overrides"
	"github.com/meur/whichgame/internal/session"
	"github.com/meur/whichgame/internal/storage"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Config file path (default: search config.yaml)")
	port := flag.Int("port", 0, "Server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	logger := logging.With("server")

	// Initialize storage
	store, err := storage.New(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer store.Close()

	sess, err := session.New(store.Slot(overrides.Key), session.Options{
		Passcode:       cfg.Admin.Passcode,
		BcryptCost:     cfg.Admin.BcryptCost,
		MissingDefault: cfg.Recommend.MissingScoreDefault,
		Logger:         logging.With("session"),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create session")
	}

	if err := loadData(context.Background(), cfg.Data, store, sess); err != nil {
		// The server still starts; an admin can upload data later.
		logger.Warn().Err(err).Msg("No data loaded at startup")
	}

	srv := api.New(sess, store, api.Options{
		CORSOrigins:       cfg.Security.CORSOrigins,
		RateLimitRequests: cfg.Security.RateLimitRequests,
		RateLimitWindow:   cfg.Security.RateLimitWindow,
		Logger:            logging.With("api"),
	})

	// Serve frontend static files (for production deployment)
	if cfg.Server.StaticDir != "" {
		FileServer(srv.Router(), "/", http.Dir(cfg.Server.StaticDir))
	}

	logger.Info().
		Str("addr", cfg.Server.Addr()).
		Str("database", cfg.Database.Path).
		Msg("WhichGame API starting")

	if err := http.ListenAndServe(cfg.Server.Addr(), srv); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

// loadData prefers the configured files and falls back to the sources last
// stored in the database.
func loadData(ctx context.Context, data config.DataConfig, store *storage.Store, sess *session.Session) error {
	var (
		prefSrc  *models.Source
		rulesSrc *models.Source
	)

	if data.PreferencesPath != "" {
		src, err := session.ReadSourceFile(models.SourcePreferences, data.PreferencesPath)
		if err != nil {
			return err
		}
		prefSrc = &src
		if data.RulesPath != "" {
			rs, err := session.ReadSourceFile(models.SourceRules, data.RulesPath)
			if err != nil {
				return err
			}
			rulesSrc = &rs
		}
	} else {
		var err error
		if prefSrc, err = store.GetSource(ctx, models.SourcePreferences); err != nil {
			return err
		}
		if prefSrc == nil {
			return session.ErrNotLoaded
		}
		if rulesSrc, err = store.GetSource(ctx, models.SourceRules); err != nil {
			return err
		}
	}

	src, err := session.SourcesFrom(*prefSrc, rulesSrc)
	if err != nil {
		return err
	}
	return sess.Load(ctx, src)
}

// FileServer conveniently sets up a http.FileServer handler to serve
// static files from a http.FileSystem.
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, req *http.Request) {
		rctx := chi.RouteContext(req.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, req)
	})
}
