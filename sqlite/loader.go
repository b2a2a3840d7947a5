// Package sqlite loads table rows from SQLite databases. Query results become
// table.Document rows, or typed rows through LoadInto, ready to be handed to a
// table.DataSource.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/asaidimu/go-tabula/core/table"
	"github.com/asaidimu/go-tabula/utils"
	"go.uber.org/zap"
)

// Querier abstracts the query method shared by *sql.DB and *sql.Tx, so a Loader
// can read inside or outside a transaction.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Loader reads rows from a SQLite database.
type Loader struct {
	db     Querier
	logger *zap.Logger
}

// NewLoader creates a Loader reading through db, which may be a *sql.DB or a
// *sql.Tx.
func NewLoader(db Querier, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{db: db, logger: logger}
}

// Load runs query and returns every result row as a Document keyed by column
// name.
func (l *Loader) Load(ctx context.Context, query string, args ...any) ([]table.Document, error) {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	docs, err := readRows(rows)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("Loaded rows", zap.String("query", query), zap.Int("count", len(docs)))
	return docs, nil
}

// LoadTable returns every row of the named table.
func (l *Loader) LoadTable(ctx context.Context, name string) ([]table.Document, error) {
	if name == "" {
		return nil, fmt.Errorf("table name is required")
	}
	return l.Load(ctx, "SELECT * FROM "+quoteIdentifier(name))
}

// Refresh loads query and replaces the rows of ds with the result. On error ds
// is left untouched.
func (l *Loader) Refresh(ctx context.Context, ds *table.DataSource[table.Document], query string, args ...any) error {
	docs, err := l.Load(ctx, query, args...)
	if err != nil {
		return err
	}
	ds.SetRows(docs)
	return nil
}

// LoadInto runs query and decodes each row into T by matching column names to
// T's `json` field names.
func LoadInto[T any](ctx context.Context, l *Loader, query string, args ...any) ([]T, error) {
	docs, err := l.Load(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(docs))
	for i, doc := range docs {
		v, err := utils.MapToStruct[T](doc)
		if err != nil {
			return nil, fmt.Errorf("failed to decode row %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// readRows reads all rows from a *sql.Rows object into Documents. Columns with
// text affinity may come back from the driver as []byte and are converted to
// string; BLOB columns keep their bytes.
func readRows(rows *sql.Rows) ([]table.Document, error) {
	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	columns := make([]string, len(columnTypes))
	text := make([]bool, len(columnTypes))
	for i, ct := range columnTypes {
		columns[i] = ct.Name()
		text[i] = hasTextAffinity(ct.DatabaseTypeName())
	}

	results := []table.Document{}
	for rows.Next() {
		values := make([]any, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}

		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(table.Document, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok && text[i] {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return results, nil
}

// hasTextAffinity applies SQLite's affinity rule for text: a declared type
// containing CHAR, CLOB or TEXT.
func hasTextAffinity(declType string) bool {
	t := strings.ToUpper(declType)
	return strings.Contains(t, "CHAR") || strings.Contains(t, "CLOB") || strings.Contains(t, "TEXT")
}

// quoteIdentifier safely quotes an identifier, such as a table or column name,
// to prevent SQL injection and to handle names that might be keywords or contain
// special characters.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
