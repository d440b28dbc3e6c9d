package commands

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/LT1923/4c2025/internal/app"
	"github.com/LT1923/4c2025/internal/cli/albumselect"
	"github.com/LT1923/4c2025/internal/models"
)

var errNotLoggedIn = errors.New("not logged in. Run 'album login' first")

// Prompter asks the user for input the flags did not provide
type Prompter interface {
	Password() (string, error)
	SelectAlbum(albums []models.Album) (albumselect.Selection, error)
}

// Env is shared by every command of one invocation. The App is built on first
// use so that commands like version never open storage.
type Env struct {
	Load     func() (*app.App, error)
	Prompter Prompter

	app *app.App
}

// App returns the process App, building it on first call
func (e *Env) App() (*app.App, error) {
	if e.app != nil {
		return e.app, nil
	}
	a, err := e.Load()
	if err != nil {
		return nil, err
	}
	e.app = a
	return a, nil
}

// Close releases the App if one was built
func (e *Env) Close() error {
	if e.app == nil {
		return nil
	}
	err := e.app.Close()
	e.app = nil
	return err
}

// loggedIn returns the App after making sure a session exists
func (e *Env) loggedIn() (*app.App, error) {
	a, err := e.App()
	if err != nil {
		return nil, err
	}
	if !a.Session.CheckAuth() {
		return nil, errNotLoggedIn
	}
	return a, nil
}

// TerminalPrompter reads from the controlling terminal
type TerminalPrompter struct{}

func (TerminalPrompter) Password() (string, error) {
	// Check if stdin is a terminal (not piped)
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("password is required in non-interactive mode (use --password flag or ALBUM_PASSWORD env var)")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}

func (TerminalPrompter) SelectAlbum(albums []models.Album) (albumselect.Selection, error) {
	return albumselect.PromptAlbumSelection(albums)
}
