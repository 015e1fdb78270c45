// Пакет migrations — схема локального хранилища (goose), встроенная в бинарник.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Up применяет миграции для диалекта (goose.DialectPostgres или goose.DialectSQLite3).
// Возвращает число применённых миграций.
func Up(ctx context.Context, db *sql.DB, dialect goose.Dialect) (int, error) {
	dir, err := dirFor(dialect)
	if err != nil {
		return 0, err
	}
	fsys, err := fs.Sub(files, dir)
	if err != nil {
		return 0, fmt.Errorf("migrations fs: %w", err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return 0, fmt.Errorf("goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("goose up: %w", err)
	}
	return len(results), nil
}

func dirFor(dialect goose.Dialect) (string, error) {
	switch dialect {
	case goose.DialectPostgres:
		return "postgres", nil
	case goose.DialectSQLite3:
		return "sqlite", nil
	}
	return "", fmt.Errorf("unsupported dialect: %s", dialect)
}
