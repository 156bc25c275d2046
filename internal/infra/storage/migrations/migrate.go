package migrations

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/m04kA/barbershop-booking/pkg/dbmetrics"
)

//go:embed *.sql
var fs embed.FS

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Up применяет все ещё не применённые миграции по порядку имён файлов.
// Применённые версии хранятся в таблице schema_migrations.
func Up(ctx context.Context, db dbmetrics.DBExecutor, logger Logger) (int, error) {
	files, err := Files()
	if err != nil {
		return 0, err
	}

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW())`); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := 0
	for _, f := range files {
		var exists bool
		if err := db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, f).Scan(&exists); err != nil {
			return applied, fmt.Errorf("check %s: %w", f, err)
		}
		if exists {
			continue
		}

		body, err := fs.ReadFile(f)
		if err != nil {
			return applied, fmt.Errorf("read %s: %w", f, err)
		}
		if _, err := db.ExecContext(ctx, string(body)); err != nil {
			return applied, fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, f); err != nil {
			return applied, fmt.Errorf("record %s: %w", f, err)
		}

		applied++
		if logger != nil {
			logger.Info("Migrations: applied %s", f)
		}
	}

	return applied, nil
}

// Files список встроенных миграций в порядке применения
func Files() ([]string, error) {
	entries, err := fs.ReadDir(".")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
