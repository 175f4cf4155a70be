package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/target/odoo-school-client/config"
	"github.com/target/odoo-school-client/internal/bootstrap"
	apperrors "github.com/target/odoo-school-client/internal/errors"
	"github.com/target/odoo-school-client/internal/odoo"
)

// envFileEnv names an env file to load instead of ./.env.
const envFileEnv = "ODOO_SCHOOL_ENV_FILE"

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
	Err    io.Writer
}

var (
	// errUsage marks flag and argument errors.
	errUsage = errors.New("usage error")
	// errHelp is returned after -h printed the flag defaults.
	errHelp = errors.New("help requested")
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code) //nolint:forbidigo // CLI must propagate command status to the shell
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		_ = printUsage(stderr)
		return exitUsage
	}

	cmdName := args[0]
	cmd, ok := commands()[cmdName]
	if !ok {
		_ = writef(stderr, "unknown command %q\n\n", cmdName)
		_ = printUsage(stderr)
		return exitUsage
	}

	var envFiles []string
	if f := os.Getenv(envFileEnv); f != "" {
		envFiles = append(envFiles, f)
	}
	cfg, err := bootstrap.LoadConfig(envFiles...)
	if err != nil {
		_ = writef(stderr, "load config: %v\n", err)
		return exitFailure
	}
	logger := bootstrap.InitLogger(cfg, stderr)

	cmdCtx := &commandContext{
		Ctx:    ctx,
		Logger: logger,
		Config: cfg,
		Out:    stdout,
		Err:    stderr,
	}
	if runErr := cmd.run(cmdCtx, args[1:]); runErr != nil {
		if errors.Is(runErr, errHelp) {
			return exitOK
		}
		if errors.Is(runErr, errUsage) {
			if runErr != errUsage { //nolint:errorlint // bare sentinel means the detail was already printed
				_ = writeln(stderr, runErr)
			}
			return exitUsage
		}
		logger.DebugContext(ctx, "command failed", "command", cmdName, "error", runErr)
		_ = writeln(stderr, userMessage(runErr))
		return exitFailure
	}
	return exitOK
}

func commands() map[string]command {
	return map[string]command{
		"login": {
			name:        "login",
			description: "Authenticate against Odoo and store the session",
			run:         runLogin,
		},
		"logout": {
			name:        "logout",
			description: "Destroy the remote session and clear local state",
			run:         runLogout,
		},
		"whoami": {
			name:        "whoami",
			description: "Verify the stored session with the server and print it",
			run:         runWhoami,
		},
		"health": {
			name:        "health",
			description: "Check whether the Odoo server is reachable",
			run:         runHealth,
		},
		"databases": {
			name:        "databases",
			description: "List databases served by the Odoo host",
			run:         runDatabases,
		},
		"search-read": {
			name:        "search-read",
			description: "Search a model and print projected records",
			run:         runSearchRead,
		},
		"read": {
			name:        "read",
			description: "Read records of a model by id",
			run:         runRead,
		},
		"count": {
			name:        "count",
			description: "Count records of a model matching a domain",
			run:         runCount,
		},
		"call": {
			name:        "call",
			description: "Invoke an arbitrary model method",
			run:         runCall,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: odoo-school <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(w, "  %-14s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

// withStack opens storage, wires the auth stack, and releases storage afterwards.
func withStack(cmdCtx *commandContext, fn func(stack *bootstrap.AuthStack) error) (err error) {
	storage, err := bootstrap.BuildStorage(cmdCtx.Ctx, bootstrap.StorageConfig{
		App:    cmdCtx.Config,
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("open session storage: %w", err)
	}
	defer func() {
		if closeErr := storage.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close session storage: %w", closeErr))
		}
	}()

	stack, err := bootstrap.BuildAuthStack(bootstrap.AuthConfig{
		App:    cmdCtx.Config,
		KV:     storage.KV,
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := stack.Close(); closeErr != nil {
			cmdCtx.Logger.DebugContext(cmdCtx.Ctx, "close metrics client failed", "error", closeErr)
		}
	}()
	unregister := stack.Notifier.Register(func() {
		cmdCtx.Logger.WarnContext(cmdCtx.Ctx, "odoo rejected the session, stored credential cleared")
	})
	defer unregister()
	return fn(stack)
}

// userMessage prefers the message meant for people over the wrapped error chain.
func userMessage(err error) string {
	var rpcErr *odoo.Error
	if apperrors.GetCode(err) == "" && errors.As(err, &rpcErr) && rpcErr.Message != "" {
		return rpcErr.Message
	}
	return apperrors.Message(err)
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
