package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"loan-broker/internal/common/auth"
	"loan-broker/internal/common/config"
	"loan-broker/internal/common/database"
	"loan-broker/internal/common/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to a config file (defaults to configs/config.yaml)")
	migrate := flag.Bool("migrate", false, "Apply pending migrations before seeding")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	zapLog, err := logger.New(cfg.Logging.Level, "console", "stdout")
	if err != nil {
		fmt.Printf("Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		fmt.Printf("Error connecting to PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pg.Close()

	if *migrate {
		migrator, err := database.NewMigrator(pg.DB, log)
		if err == nil {
			err = migrator.Up(ctx)
		}
		if err != nil {
			fmt.Printf("Error applying migrations: %v\n", err)
			os.Exit(1)
		}
	}

	s := &seeder{db: pg.DB, hasher: auth.NewBcryptHasher(), logger: log}
	res, err := s.run(ctx)
	if err != nil {
		fmt.Printf("Error seeding database: %v\n", err)
		os.Exit(1)
	}
	if res.Skipped {
		fmt.Println("Database already seeded, nothing to do.")
		return
	}
	fmt.Printf("Database has been seeded. Sign in as admin@, lender@ or you@example.com with %q.\n", DefaultPassword)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}
