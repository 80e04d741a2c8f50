package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/lofoneh/usersvc/internal/migrations"
	"github.com/lofoneh/usersvc/pkg/config"
	"github.com/lofoneh/usersvc/pkg/database"
	"github.com/lofoneh/usersvc/pkg/logger"
)

const usage = "usage: migrate [up|down|status|version]"

func main() {
	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg.Database())
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("database handle unavailable", zap.Error(err))
	}

	if err := run(ctx, cmd, sqlDB, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		log.Fatal("migration failed", zap.String("command", cmd), zap.Error(err))
	}
}

var errUsage = errors.New("unknown command")

// swapped in tests
var (
	migrateUp      = migrations.Up
	migrateDown    = migrations.Down
	migrateStatus  = migrations.Status
	migrateVersion = migrations.Version
)

func run(ctx context.Context, cmd string, db *sql.DB, out io.Writer) error {
	switch cmd {
	case "up":
		if err := migrateUp(ctx, db); err != nil {
			return err
		}
	case "down":
		if err := migrateDown(ctx, db); err != nil {
			return err
		}
	case "status":
		return migrateStatus(ctx, db)
	case "version":
		v, err := migrateVersion(ctx, db)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "schema version %d\n", v)
		return nil
	default:
		return fmt.Errorf("%w: %q", errUsage, cmd)
	}
	fmt.Fprintln(out, "migrations completed")
	return nil
}
