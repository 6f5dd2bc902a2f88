package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/skillswap/skillswap/internal/config"
	"github.com/skillswap/skillswap/internal/identity"
	"github.com/skillswap/skillswap/internal/logging"
	"github.com/skillswap/skillswap/internal/tui"
	"github.com/skillswap/skillswap/pkg/client"
	"github.com/skillswap/skillswap/pkg/domain"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// invocation is a parsed command line.
type invocation struct {
	command   string
	overrides config.Overrides
	watch     bool
	help      bool
	version   bool
}

func parseArgs(args []string) (invocation, error) {
	var inv invocation
	flagSet := pflag.NewFlagSet("skillswap", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	inv.overrides.Register(flagSet)
	flagSet.BoolVar(&inv.watch, "watch", false, "with sessions: keep refreshing until interrupted")
	flagSet.BoolVarP(&inv.help, "help", "h", false, "show help")
	flagSet.BoolVarP(&inv.version, "version", "v", false, "show version")

	if err := flagSet.Parse(args); err != nil {
		return inv, err
	}
	rest := flagSet.Args()
	switch len(rest) {
	case 0:
	case 1:
		inv.command = rest[0]
	default:
		return inv, fmt.Errorf("unexpected argument: %s", rest[1])
	}
	if inv.watch && inv.command != "sessions" {
		return inv, errors.New("--watch only applies to the sessions command")
	}
	return inv, nil
}

func run(args []string) error {
	inv, err := parseArgs(args)
	if err != nil {
		return err
	}

	switch {
	case inv.help || inv.command == "help":
		printHelp()
		return nil
	case inv.version || inv.command == "version":
		fmt.Println("skillswap " + version)
		return nil
	}

	cfg, err := config.Load(inv.overrides)
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()
	logger.Debug("starting", "command", inv.command, "api_url", cfg.APIURL, "version", version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.New(cfg.APIURL, client.WithTimeout(cfg.HTTPTimeout), client.WithLogger(logger))
	store := identity.Store{Path: cfg.IdentityPath()}
	p := newPrompter(os.Stdin, os.Stdout)

	switch inv.command {
	case "":
		me, err := store.Load()
		if errors.Is(err, identity.ErrNotLoggedIn) {
			printGreeting()
			return nil
		}
		if err != nil {
			return err
		}
		return runTUI(cfg, c, store, *me, logger)

	case "login":
		me, err := runLogin(ctx, c, store, p)
		if err != nil {
			return err
		}
		return maybeLaunch(cfg, c, store, *me, logger)

	case "register":
		me, err := runRegister(ctx, c, store, p)
		if err != nil {
			return err
		}
		return maybeLaunch(cfg, c, store, *me, logger)

	case "logout":
		return runLogout(store, os.Stdout)

	case "whoami":
		return runWhoami(store, os.Stdout)

	case "sessions":
		me, err := store.Load()
		if err != nil {
			return fmt.Errorf("%w: run skillswap login first", err)
		}
		if inv.watch {
			return watchSessions(ctx, c, cfg, *me, os.Stdout, logger)
		}
		return printSessions(ctx, c, cfg.Policy(), *me, os.Stdout)

	default:
		return fmt.Errorf("unknown command %q (see skillswap help)", inv.command)
	}
}

// maybeLaunch opens the dashboard after login when attached to a terminal.
func maybeLaunch(cfg *config.Config, c *client.Client, store identity.Store, me domain.User, logger *slog.Logger) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil
	}
	return runTUI(cfg, c, store, me, logger)
}

func runTUI(cfg *config.Config, c *client.Client, store identity.Store, me domain.User, logger *slog.Logger) error {
	opts := tui.DefaultOptions()
	opts.Policy = cfg.Policy()
	opts.ClockTick = cfg.ClockTick
	opts.SessionRefresh = cfg.SessionRefresh
	opts.ChatPoll = cfg.ChatPoll
	opts.RequestsPoll = cfg.RequestsPoll
	opts.Logger = logger
	opts.OnUserUpdated = func(u domain.User) error { return store.Save(&u) }

	app := tui.NewApp(c, me, opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
