package normalize

// Header synonyms, matched against Header(field) in priority order.
var (
	GameFields      = []string{"game", "game_name", "game name", "title"}
	PlayerFields    = []string{"player", "player_name", "player name", "person"}
	ScoreFields     = []string{"score", "rating", "weight", "preference", "pref"}
	MinFields       = []string{"min_players", "min players", "min", "minimum", "minplayers"}
	MaxFields       = []string{"max_players", "max players", "max", "maximum", "maxplayers"}
	IdealMinFields  = []string{"ideal_min", "ideal min", "best_min", "idealmin"}
	IdealMaxFields  = []string{"ideal_max", "ideal max", "best_max", "idealmax"}
	OnlineCapFields = []string{"online_cap", "online cap", "online_max", "onlinecap"}
	NotesFields     = []string{"notes", "note", "comment"}
)
