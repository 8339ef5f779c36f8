package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aussiebroadwan/clientdesk/internal/clients/service"
	"github.com/aussiebroadwan/clientdesk/pkg/cryptox"
)

// Command selects what the binary does on start.
type Command string

const (
	CommandServe       Command = "serve"
	CommandMigrate     Command = "migrate"
	CommandCreateAdmin Command = "createadmin"
	// CommandFlushExpiredTokens deletes refresh tokens past their expiry.
	CommandFlushExpiredTokens Command = "flushexpiredtokens"
	// CommandHealthcheck probes /livez on the local server, for container
	// health checks in images without curl.
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand reads the subcommand from args. Empty or unknown input
// selects CommandServe.
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch Command(args[0]) {
	case CommandMigrate:
		return CommandMigrate
	case CommandCreateAdmin:
		return CommandCreateAdmin
	case CommandFlushExpiredTokens:
		return CommandFlushExpiredTokens
	case CommandHealthcheck:
		return CommandHealthcheck
	default:
		return CommandServe
	}
}

// Run dispatches args to the matching subcommand.
func Run(ctx context.Context, args []string, stdout io.Writer) error {
	cmd := ParseCommand(args)

	if cmd == CommandHealthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(ctx, port)
	}

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	// Maintenance commands log to stderr so their stdout stays readable.
	logOut := io.Writer(os.Stdout)
	if cmd != CommandServe {
		logOut = os.Stderr
	}
	logger := newLogger(cfg, logOut)

	switch cmd {
	case CommandMigrate:
		return runMigrate(ctx, cfg, logger)
	case CommandCreateAdmin:
		return runCreateAdmin(ctx, cfg, logger, args[1:], stdout)
	case CommandFlushExpiredTokens:
		return runFlushExpiredTokens(ctx, cfg, logger, stdout)
	default:
		application, err := New(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		return application.Run(ctx)
	}
}

func runMigrate(ctx context.Context, cfg Config, logger *slog.Logger) error {
	db, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return db.Close()
}

func runFlushExpiredTokens(ctx context.Context, cfg Config, logger *slog.Logger, stdout io.Writer) error {
	db, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	hk := &service.HousekeepingService{Store: db, Logger: logger}
	n, err := hk.FlushExpiredTokens(ctx)
	if err != nil {
		return fmt.Errorf("flushexpiredtokens: %w", err)
	}
	fmt.Fprintf(stdout, "deleted %d expired refresh tokens\n", n)
	return nil
}

// runCreateAdmin creates or promotes a staff account. A random password is
// generated and printed when -password is omitted.
func runCreateAdmin(ctx context.Context, cfg Config, logger *slog.Logger, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet(string(CommandCreateAdmin), flag.ContinueOnError)
	fs.SetOutput(stdout)
	username := fs.String("username", "", "admin username")
	password := fs.String("password", "", "admin password; generated when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("createadmin: -username is required")
	}

	generated := false
	if *password == "" {
		p, err := cryptox.GeneratePassword()
		if err != nil {
			return fmt.Errorf("createadmin: %w", err)
		}
		*password = p
		generated = true
	}

	if err := cryptox.LoadPepper(cfg.PepperFile); err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}

	db, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	users := &service.UserService{Store: db}
	u, created, err := users.CreateAdmin(ctx, service.AdminInput{Username: *username, Password: *password})
	if err != nil {
		if ve, ok := service.IsValidationError(err); ok {
			return fmt.Errorf("createadmin: invalid input: %v", ve.Fields)
		}
		return fmt.Errorf("createadmin: %w", err)
	}

	action := "updated"
	if created {
		action = "created"
	}
	fmt.Fprintf(stdout, "admin %q %s\n", u.Username, action)
	if generated {
		fmt.Fprintf(stdout, "password: %s\n", *password)
	}
	return nil
}

func runHealthcheck(ctx context.Context, port string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("http://localhost:%s/livez", port), nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}
