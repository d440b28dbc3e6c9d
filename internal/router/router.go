package router

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// maxRedirects bounds guard redirect chains
const maxRedirects = 5

// ErrRedirectLoop is returned when guard redirects do not settle
var ErrRedirectLoop = errors.New("too many guard redirects")

// Router navigates between views, running the guard before every transition
type Router struct {
	table   *Table
	guard   *Guard
	history *History
	logger  zerolog.Logger
}

// New creates a router with an empty history
func New(table *Table, guard *Guard, log zerolog.Logger) *Router {
	return &Router{
		table:   table,
		guard:   guard,
		history: NewHistory(),
		logger:  log.With().Str("component", "router").Logger(),
	}
}

// Push navigates to path, adding a history entry unless the guard redirects
func (r *Router) Push(path string) (Match, error) {
	return r.navigate(path, false)
}

// Replace navigates to path, overwriting the current history entry
func (r *Router) Replace(path string) (Match, error) {
	return r.navigate(path, true)
}

// Back returns to the previous entry. The guard runs again, so going back to
// a gated view after logging out lands on the login view.
func (r *Router) Back() (Match, error) {
	path, ok := r.history.Back()
	if !ok {
		return Match{}, fmt.Errorf("%w: no previous entry", ErrRouteNotFound)
	}
	return r.navigate(path, true)
}

// Current returns the resolved current entry
func (r *Router) Current() (Match, bool) {
	path, ok := r.history.Current()
	if !ok {
		return Match{}, false
	}
	m, err := r.table.Resolve(path)
	if err != nil {
		return Match{}, false
	}
	return m, true
}

// History exposes the navigation history
func (r *Router) History() *History {
	return r.history
}

// Resolve matches path without navigating
func (r *Router) Resolve(path string) (Match, error) {
	return r.table.Resolve(path)
}

func (r *Router) navigate(path string, replace bool) (Match, error) {
	from := path
	for range maxRedirects + 1 {
		to, err := r.table.Resolve(path)
		if err != nil {
			return Match{}, err
		}

		decision := r.guard.Check(to)
		if decision.Allowed() {
			if replace {
				r.history.Replace(to.Path)
			} else {
				r.history.Push(to.Path)
			}
			r.logger.Debug().Str("from", from).Str("to", to.Path).Bool("replace", replace).Msg("Navigated")
			return to, nil
		}

		path = decision.Redirect
		replace = replace || decision.Replace
	}

	r.logger.Error().Str("from", from).Msg("Redirect loop")
	return Match{}, fmt.Errorf("%w: from %s", ErrRedirectLoop, from)
}
