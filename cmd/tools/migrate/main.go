package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"loan-broker/internal/common/config"
	"loan-broker/internal/common/database"
	"loan-broker/internal/common/logger"
)

var configPath string

func main() {
	upCmd := flag.NewFlagSet("up", flag.ExitOnError)
	statusCmd := flag.NewFlagSet("status", flag.ExitOnError)
	downCmd := flag.NewFlagSet("down", flag.ExitOnError)

	for _, fs := range []*flag.FlagSet{upCmd, statusCmd, downCmd} {
		fs.StringVar(&configPath, "config", "", "Path to a config file (defaults to configs/config.yaml)")
	}
	target := downCmd.Int64("to", 0, "Roll back every migration above this version (default: only the latest)")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var run func(context.Context, *database.Migrator) error
	switch os.Args[1] {
	case "up":
		upCmd.Parse(os.Args[2:])
		run = func(ctx context.Context, m *database.Migrator) error { return m.Up(ctx) }
	case "status":
		statusCmd.Parse(os.Args[2:])
		run = func(ctx context.Context, m *database.Migrator) error { return m.Status(ctx) }
	case "down":
		downCmd.Parse(os.Args[2:])
		if *target < 0 {
			fmt.Println("Error: -to must not be negative.")
			downCmd.Usage()
			os.Exit(1)
		}
		run = func(ctx context.Context, m *database.Migrator) error { return m.Down(ctx, *target) }
	case "help":
		help()
		return
	default:
		help()
		os.Exit(1)
	}

	if err := migrate(run); err != nil {
		fmt.Printf("Migration %s failed: %v\n", os.Args[1], err)
		os.Exit(1)
	}
	fmt.Printf("Migration %s finished.\n", os.Args[1])
}

func migrate(run func(context.Context, *database.Migrator) error) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zapLog, err := logger.New(cfg.Logging.Level, "console", "stdout")
	if err != nil {
		return err
	}
	defer zapLog.Sync()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()

	m, err := database.NewMigrator(pg.DB, logger.NewZapAdapter(zapLog))
	if err != nil {
		return err
	}
	return run(context.Background(), m)
}

func help() {
	fmt.Print(`
Usage: migrate <command> [flags]

Commands:
  up      Apply every pending migration
  status  List applied and pending migrations
  down    Roll back the latest migration, or down to -to <version>
  help    Show this help message

Examples:
  migrate up
  migrate status -config configs/config.yaml
  migrate down -to 1

Use 'migrate <command> -h' for more information about a command.
` + "\n")
}
