package router

import (
	"github.com/rs/zerolog"

	"github.com/LT1923/4c2025/internal/session"
	"github.com/LT1923/4c2025/internal/storage"
)

// Decision is the guard's verdict on one transition. An empty Redirect means
// the transition is allowed as requested.
type Decision struct {
	Redirect string
	Replace  bool
}

// Allowed reports whether the transition proceeds unchanged
func (d Decision) Allowed() bool {
	return d.Redirect == ""
}

// Guard decides every transition from the raw stored session. It never parses
// the stored value, so a corrupt entry still counts as logged in here even
// though session.Store.CheckAuth would discard it.
type Guard struct {
	storage storage.Storage
	logger  zerolog.Logger
}

// NewGuard creates a guard reading the session key from s
func NewGuard(s storage.Storage, log zerolog.Logger) *Guard {
	return &Guard{
		storage: s,
		logger:  log.With().Str("component", "guard").Logger(),
	}
}

// Authenticated reports whether a session value is present in storage.
// A read error counts as absent.
func (g *Guard) Authenticated() bool {
	raw, ok, err := g.storage.Get(session.StorageKey)
	if err != nil {
		g.logger.Warn().Err(err).Msg("Failed to read stored session")
		return false
	}
	return ok && raw != ""
}

// Check decides a transition to the resolved route
func (g *Guard) Check(to Match) Decision {
	authenticated := g.Authenticated()

	log := g.logger.Debug().
		Str("to", to.Path).
		Str("route", to.Route.Name).
		Bool("requires_auth", to.Route.NeedsAuth()).
		Bool("authenticated", authenticated)

	switch {
	case to.Route.NeedsAuth() && !authenticated:
		log.Str("redirect", AuthPath).Msg("Guard redirect")
		return Decision{Redirect: AuthPath, Replace: true}
	case to.Route.Path == AuthPath && authenticated:
		log.Str("redirect", HomePath).Msg("Guard redirect")
		return Decision{Redirect: HomePath, Replace: true}
	default:
		log.Msg("Guard allow")
		return Decision{}
	}
}
