package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/ManuelReschke/ContractorHub/internal/pkg/env"
	"github.com/ManuelReschke/ContractorHub/migrations"
)

func main() {
	env.SetupEnvFile()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	dbURL := fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s?multiStatements=true",
		env.GetEnv("DB_USER", "contractorhub"),
		env.GetEnv("DB_PASSWORD", "contractorhub"),
		env.GetEnv("DB_HOST", "db"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", "contractorhub"),
	)

	log.Printf("connecting to database %s@%s:%s/%s",
		env.GetEnv("DB_USER", "contractorhub"),
		env.GetEnv("DB_HOST", "db"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", "contractorhub"),
	)

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		log.Fatalf("failed to open embedded migrations: %v", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		log.Fatalf("failed to initialize migrations: %v", err)
	}

	defer func() {
		if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
			log.Printf("failed to close migration resources: %v, %v", sourceErr, dbErr)
		}
	}()

	switch command {
	case "up":
		if err := m.Up(); errors.Is(err, migrate.ErrNoChange) {
			log.Println("no change: database is already up to date")
		} else if err != nil {
			log.Fatalf("failed to apply migrations: %v", err)
		} else {
			log.Println("migrations applied")
		}

	case "down":
		// Roll back the most recent migration only
		if err := m.Steps(-1); err != nil {
			log.Fatalf("failed to roll back the last migration: %v", err)
		}
		log.Println("last migration rolled back")

	case "goto":
		if len(os.Args) < 3 {
			log.Fatalf("goto needs a version number")
		}
		version, err := strconv.ParseUint(os.Args[2], 10, 64)
		if err != nil {
			log.Fatalf("invalid version number: %v", err)
		}

		if err := m.Migrate(uint(version)); errors.Is(err, migrate.ErrNoChange) {
			log.Printf("no change: database is already at version %d", version)
		} else if err != nil {
			log.Fatalf("failed to migrate to version %d: %v", version, err)
		} else {
			log.Printf("migrated to version %d", version)
		}

	case "status":
		version, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				log.Println("no migrations applied yet")
			} else {
				log.Fatalf("failed to read migration version: %v", err)
			}
		} else {
			dirtyStatus := ""
			if dirty {
				dirtyStatus = " (dirty)"
			}
			log.Printf("current migration version: %d%s", version, dirtyStatus)
		}

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("usage: go run ./cmd/migrate [command]")
	fmt.Println("commands:")
	fmt.Println("  up        apply all pending migrations")
	fmt.Println("  down      roll back the last migration")
	fmt.Println("  goto N    migrate up or down to version N")
	fmt.Println("  status    print the current version")
}
