package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/target/ims-ui/config"
	"github.com/target/ims-ui/internal/adapters/filestore"
	"github.com/target/ims-ui/internal/adapters/inventoryapi"
	"github.com/target/ims-ui/internal/bootstrap"
	domainauth "github.com/target/ims-ui/internal/domain/auth"
	"github.com/target/ims-ui/internal/service"
)

// cliProfile is the profile ID every CLI session is stored under; the
// profile file itself is what separates users.
const cliProfile = "cli"

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx      context.Context
	Logger   *slog.Logger
	API      *inventoryapi.Client
	Sessions *service.SessionStore
	In       io.Reader
	Out      io.Writer
}

func main() {
	logger := bootstrap.NewLogger(os.Stderr, config.ObservabilityConfig{LogLevel: "warn"}, true)

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stderr); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}
	logger = bootstrap.NewLogger(os.Stderr, cfg.Observability, true)

	cmdCtx, err := newCommandContext(&cfg, logger, profilePath())
	if err != nil {
		logger.Error("initialize client", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal initialization failure to shell scripts
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

// profilePath returns IMS_PROFILE_PATH, or profile.json under the user config dir.
func profilePath() string {
	if p := os.Getenv("IMS_PROFILE_PATH"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "ims", "profile.json")
}

// newCommandContext wires the same session store and API client the web front
// end uses, with the profile file as storage.
func newCommandContext(cfg *config.AppConfig, logger *slog.Logger, path string) (*commandContext, error) {
	enc, err := bootstrap.CreateEncryptor(cfg.Session.EncryptionKey, cfg.IsDev, logger)
	if err != nil {
		return nil, err
	}
	sessions := service.NewSessionStore(service.SessionStoreOptions{
		Storage:   filestore.New(path),
		Encryptor: enc,
		Logger:    logger,
		MaxTTL:    cfg.Session.MaxTTL,
	})
	api, err := inventoryapi.New(inventoryapi.Options{
		BaseURL:    cfg.Backend.BaseURL,
		Sessions:   sessions,
		HTTPClient: &http.Client{Timeout: cfg.Backend.Timeout},
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	return &commandContext{
		Ctx:      domainauth.WithProfile(context.Background(), cliProfile),
		Logger:   logger,
		API:      api,
		Sessions: sessions,
		In:       os.Stdin,
		Out:      os.Stdout,
	}, nil
}

func commands() map[string]command {
	return map[string]command{
		"login": {
			name:        "login",
			description: "Sign in and store the session in the profile file",
			run:         runLogin,
		},
		"register": {
			name:        "register",
			description: "Create an account and sign in",
			run:         runRegister,
		},
		"logout": {
			name:        "logout",
			description: "Forget the stored session",
			run:         runLogout,
		},
		"whoami": {
			name:        "whoami",
			description: "Show the signed-in account",
			run:         runWhoami,
		},
		"products": {
			name:        "products",
			description: "List or search products",
			run:         runProducts,
		},
		"categories": {
			name:        "categories",
			description: "List categories",
			run:         runCategories,
		},
		"suppliers": {
			name:        "suppliers",
			description: "List suppliers",
			run:         runSuppliers,
		},
		"transactions": {
			name:        "transactions",
			description: "List transactions, optionally between two dates",
			run:         runTransactions,
		},
		"requests": {
			name:        "requests",
			description: "List stock requests (your own unless you are an admin)",
			run:         runRequests,
		},
		"transaction-status": {
			name:        "transaction-status",
			description: "Set the status of a transaction",
			run:         runTransactionStatus,
		},
		"request-status": {
			name:        "request-status",
			description: "Approve or reject a stock request (admin)",
			run:         runRequestStatus,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: ims-admin <command> [flags]\n\n"); err != nil {
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
		if err := writef(w, "  %-20s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

var errNotSignedIn = errors.New("not signed in; run ims-admin login")

// requireSession fails fast when the profile has no usable session.
func requireSession(ctx *commandContext) error {
	if !ctx.Sessions.IsAuthenticated(ctx.Ctx) {
		return errNotSignedIn
	}
	return nil
}

// expireOn401 clears the stored session when the backend rejects the token.
func expireOn401(ctx *commandContext, err error) error {
	if err == nil || !inventoryapi.IsStatus(err, http.StatusUnauthorized) {
		return err
	}
	if lerr := ctx.Sessions.Logout(ctx.Ctx); lerr != nil {
		ctx.Logger.Warn("clear expired session failed", "error", lerr)
	}
	return fmt.Errorf("session expired, sign in again: %w", err)
}
