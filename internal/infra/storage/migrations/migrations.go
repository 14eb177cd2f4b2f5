package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/m04kA/SMC-RepairService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RepairService/pkg/psqlbuilder"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// TxManager выполняет функцию в транзакции
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Runner применяет встроенные SQL миграции по порядку имен файлов
// Примененные миграции хранятся в таблице schema_migrations
type Runner struct {
	db        dbmetrics.DBExecutor
	txManager TxManager
	logger    Logger
}

// NewRunner создает новый Runner
func NewRunner(db dbmetrics.DBExecutor, txManager TxManager, logger Logger) *Runner {
	return &Runner{db: db, txManager: txManager, logger: logger}
}

// Files возвращает отсортированный список встроенных миграций
func Files() ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	return files, nil
}

// Run применяет все еще не примененные миграции, каждую в своей транзакции
// Возвращает количество примененных файлов
func (r *Runner) Run(ctx context.Context) (int, error) {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename   TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	applied, err := r.applied(ctx)
	if err != nil {
		return 0, err
	}

	files, err := Files()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, filename := range files {
		if applied[filename] {
			continue
		}

		content, err := fs.ReadFile(migrationsFS, "sql/"+filename)
		if err != nil {
			return count, fmt.Errorf("failed to read migration %s: %w", filename, err)
		}

		err = r.txManager.Do(ctx, func(ctx context.Context) error {
			executor := dbmetrics.GetExecutor(ctx, r.db)

			if _, err := executor.ExecContext(ctx, string(content)); err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", filename, err)
			}

			query, args, err := psqlbuilder.Insert("schema_migrations").
				Columns("filename").
				Values(filename).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build record query for %s: %w", filename, err)
			}

			if _, err := executor.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", filename, err)
			}
			return nil
		})
		if err != nil {
			return count, err
		}

		r.logger.Info("Migrations: applied %s", filename)
		count++
	}

	return count, nil
}

func (r *Runner) applied(ctx context.Context) (map[string]bool, error) {
	query, args, err := psqlbuilder.Select("filename").From("schema_migrations").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build applied migrations query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, fmt.Errorf("failed to scan migration filename: %w", err)
		}
		applied[filename] = true
	}

	return applied, rows.Err()
}
