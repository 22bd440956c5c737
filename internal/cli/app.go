// Package cli implements the interactive terminal client.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"bookoracle/pkg/api"
	"bookoracle/pkg/explore"
	"bookoracle/pkg/saved"
	"bookoracle/pkg/session"
)

// App holds the wired client components and drives the command loop.
type App struct {
	client   *api.Client
	sessions session.Store
	explore  *explore.Controller
	saved    *saved.Mutator
	scanner  *bufio.Scanner
	out      io.Writer
}

// Config wires dependencies for the CLI.
type Config struct {
	Client   *api.Client
	Sessions session.Store
	Explore  *explore.Controller
	Saved    *saved.Mutator
	In       io.Reader
	Out      io.Writer
}

// NewApp constructs the CLI application.
func NewApp(cfg Config) *App {
	in := cfg.In
	if in == nil {
		in = os.Stdin
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	return &App{
		client:   cfg.Client,
		sessions: cfg.Sessions,
		explore:  cfg.Explore,
		saved:    cfg.Saved,
		scanner:  bufio.NewScanner(in),
		out:      out,
	}
}

// Run starts the interactive loop and returns when the user exits or
// input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Book Oracle client. Type 'help' for commands.")
	for {
		fmt.Fprint(a.out, "> ")
		if !a.scanner.Scan() {
			return
		}
		line := strings.TrimSpace(a.scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			fmt.Fprintln(a.out, "Goodbye!")
			return
		}
		a.dispatch(ctx, line)
	}
}

func (a *App) dispatch(ctx context.Context, line string) {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "help":
		a.printHelp()
	case "login":
		a.cmdLogin(ctx)
	case "register":
		a.cmdRegister(ctx)
	case "logout":
		a.cmdLogout(ctx)
	case "whoami":
		a.cmdWhoami(ctx)
	case "status":
		a.cmdStatus(ctx)
	case "reset-password":
		a.cmdResetPassword(ctx)
	case "search":
		a.cmdSearch(ctx, rest)
	case "explore":
		a.cmdExplore(ctx, rest)
	case "more":
		a.cmdMore(ctx)
	case "book":
		a.cmdBook(ctx, rest)
	case "save":
		a.cmdSave(ctx, rest)
	case "saved":
		a.cmdSaved(ctx)
	case "recommend":
		a.cmdRecommend(ctx)
	case "genres":
		a.cmdGenres(ctx)
	case "prefer":
		a.cmdPrefer(ctx, rest)
	case "dashboard":
		a.cmdDashboard(ctx)
	case "admin":
		a.cmdAdmin(ctx, rest)
	default:
		fmt.Fprintf(a.out, "Unknown command %q. Type 'help' for commands.\n", cmd)
	}
}

func (a *App) printHelp() {
	fmt.Fprintln(a.out, "Commands:")
	fmt.Fprintln(a.out, "  Account:  login, register, logout, whoami, status, reset-password")
	fmt.Fprintln(a.out, "  Books:    search <text>, explore [field=value ...], more,")
	fmt.Fprintln(a.out, "            book <id>, save <id>, saved, recommend")
	fmt.Fprintln(a.out, "  Profile:  genres, prefer <genre,genre,...>")
	fmt.Fprintln(a.out, "  Admin:    dashboard, admin users|rmuser|books|addbook|editbook|rmbook|addgenre|import")
	fmt.Fprintln(a.out, "  System:   help, exit")
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Explore filters: author, isbn, genre, year, publisher, language")
}

// prompt reads one line of input with a label.
func (a *App) prompt(label string) string {
	fmt.Fprint(a.out, label)
	if !a.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(a.scanner.Text())
}

// fail prints a normalized failure message. Every error reaching here is
// already safe to show the user.
func (a *App) fail(err error) {
	fmt.Fprintf(a.out, "Error: %v\n", err)
}
