package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hackdook/engage/config"
	"github.com/hackdook/engage/pkg/db"
)

// DbCommandDeps holds the dependencies for database commands.
type DbCommandDeps struct {
	LoadConfig  func() (*config.Config, error)
	ConnectToDB func(context.Context, *db.Config) (*pgxpool.Pool, error)
}

// DefaultDbDeps returns the default dependencies for production use.
func DefaultDbDeps() *DbCommandDeps {
	return &DbCommandDeps{
		LoadConfig:  config.LoadConfig,
		ConnectToDB: db.Connect,
	}
}

// NewDbCommand creates the root db command with all subcommands.
func NewDbCommand() *cobra.Command {
	deps := DefaultDbDeps()

	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
		Long: `Database management commands for engage.

Connects directly to PostgreSQL using HD_DB_* environment variables, the
config file's database section, and the password stored in the OS keyring.

Examples:
  # Create or update the schema
  engage db init

  # Check connectivity
  engage db ping

  # Store the database password in the OS keyring
  engage db set-password`,
		Aliases: []string{"database"},
	}

	cmd.AddCommand(newDbInitCommand(deps))
	cmd.AddCommand(newDbPingCommand(deps))
	cmd.AddCommand(newDbSetPasswordCommand())

	return cmd
}

// newDbInitCommand creates the db init subcommand.
func newDbInitCommand(deps *DbCommandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create or update the database schema",
		Long: `Create or update the database schema.

Applies the embedded DDL idempotently: existing tables are left alone, so
running init repeatedly is safe. The serve command also syncs the schema at
startup; init exists for provisioning a database ahead of time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			pool, err := dbConnect(ctx, deps)
			if err != nil {
				return err
			}
			defer db.Close(pool)

			if err := db.SyncSchema(ctx, pool); err != nil {
				return fmt.Errorf("syncing schema: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
			return nil
		},
	}
}

// newDbPingCommand creates the db ping subcommand.
func newDbPingCommand(deps *DbCommandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check database connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			pool, err := dbConnect(ctx, deps)
			if err != nil {
				return err
			}
			defer db.Close(pool)

			if err := db.Ping(ctx, pool); err != nil {
				return fmt.Errorf("pinging database: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Database is reachable.")
			return nil
		},
	}
}

// newDbSetPasswordCommand creates the db set-password subcommand.
func newDbSetPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-password",
		Short: "Store the database password in the OS keyring",
		Long: `Store the database password in the OS keyring.

Prompts for the password with hidden input and saves it under the "engage"
keyring service. The serve and db commands use the stored password whenever
HD_DB_PASSWORD is not set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptForPassword()
			if err != nil {
				return err
			}
			if password == "" {
				return fmt.Errorf("no password provided")
			}

			if err := config.StoreDBPassword(password); err != nil {
				return fmt.Errorf("storing password: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Password stored in keyring.")
			return nil
		},
	}
}

// dbConnect resolves the effective database config and opens a pool.
func dbConnect(ctx context.Context, deps *DbCommandDeps) (*pgxpool.Pool, error) {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	pool, err := deps.ConnectToDB(ctx, cfg.DBConfig())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return pool, nil
}

// promptForPassword reads a password with hidden input, falling back to
// plain stdin when no terminal is available.
func promptForPassword() (string, error) {
	fmt.Print("Database password: ")

	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return strings.TrimSpace(line), nil
	}

	return strings.TrimSpace(string(passwordBytes)), nil
}
