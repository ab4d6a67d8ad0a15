// Package sqlite provides a SQLite-backed index.Index.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	stderrors "errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/oscarhermoso/cubecache/errors"
	"github.com/oscarhermoso/cubecache/index"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

//go:embed schema.sql
var schema string

// Index persists index items in a single SQLite table.
type Index struct {
	sqlDB *sql.DB
	clock func() time.Time
}

// Open opens (creating if needed) the SQLite index at path.
func Open(path string) (*Index, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New(errors.CodeInvalidConfig, "index path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeIndexFailed, "open sqlite db")
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, errors.CodeIndexFailed, "ping sqlite db")
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, errors.CodeIndexFailed, "create schema")
	}
	return &Index{sqlDB: sqlDB, clock: time.Now}, nil
}

// Close closes the SQLite handle.
func (x *Index) Close() error {
	if x == nil || x.sqlDB == nil {
		return nil
	}
	return x.sqlDB.Close()
}

// Query implements index.Index using keyset pagination.
func (x *Index) Query(ctx context.Context, partitionKey string, cursor *index.Cursor, opts ...index.QueryOption) (index.Page, error) {
	if err := ctx.Err(); err != nil {
		return index.Page{}, translate(err, "query index")
	}
	if err := index.ValidateCursor(partitionKey, cursor); err != nil {
		return index.Page{}, err
	}
	o := index.ResolveQueryOptions(opts...)

	order, cmp := "DESC", "<"
	if o.Ascending {
		order, cmp = "ASC", ">"
	}

	var (
		rows *sql.Rows
		err  error
	)
	if cursor == nil {
		rows, err = x.sqlDB.QueryContext(
			ctx,
			`SELECT id, sort_key
			   FROM changelog_index
			  WHERE partition_key = ?
			  ORDER BY sort_key `+order+`, id `+order+`
			  LIMIT ?`,
			partitionKey,
			o.Limit+1,
		)
	} else {
		rows, err = x.sqlDB.QueryContext(
			ctx,
			`SELECT id, sort_key
			   FROM changelog_index
			  WHERE partition_key = ?
			    AND (sort_key `+cmp+` ? OR (sort_key = ? AND id `+cmp+` ?))
			  ORDER BY sort_key `+order+`, id `+order+`
			  LIMIT ?`,
			partitionKey,
			cursor.SortKey,
			cursor.SortKey,
			cursor.ID,
			o.Limit+1,
		)
	}
	if err != nil {
		return index.Page{}, translate(err, "query index")
	}
	defer rows.Close()

	page := index.Page{Items: make([]index.Item, 0, o.Limit)}
	for rows.Next() {
		item := index.Item{PartitionKey: partitionKey}
		if err := rows.Scan(&item.ID, &item.SortKey); err != nil {
			return index.Page{}, translate(err, "scan index row")
		}
		page.Items = append(page.Items, item)
	}
	if err := rows.Err(); err != nil {
		return index.Page{}, translate(err, "query index")
	}
	if len(page.Items) > o.Limit {
		page.Items = page.Items[:o.Limit]
		page.Next = index.CursorAt(page.Items[o.Limit-1])
	}

	return page, nil
}

// Put implements index.Index.
func (x *Index) Put(ctx context.Context, item index.Item) error {
	return x.BatchPut(ctx, []index.Item{item})
}

// BatchPut implements index.Index. The batch is written in one transaction.
func (x *Index) BatchPut(ctx context.Context, items []index.Item) error {
	if err := ctx.Err(); err != nil {
		return translate(err, "batch put")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	if len(items) == 0 {
		return nil
	}

	tx, err := x.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return translate(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO changelog_index (partition_key, sort_key, id, indexed_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (partition_key, sort_key, id) DO UPDATE SET indexed_at = excluded.indexed_at`)
	if err != nil {
		return translate(err, "prepare insert")
	}
	defer stmt.Close()

	now := x.clock().UTC().UnixMilli()
	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, item.PartitionKey, item.SortKey, item.ID, now); err != nil {
			return errors.WithContext(translate(err, "insert index item"), "id", item.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return translate(err, "commit transaction")
	}
	return nil
}

// translate maps database errors onto error codes.
func translate(err error, message string) error {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(err, errors.CodeTimeout, message)
	}

	var sqliteErr *msqlite.Error
	if stderrors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
			return errors.Wrap(err, errors.CodeUnavailable, message)
		}
	}

	return errors.Wrap(err, errors.CodeIndexFailed, message)
}

var _ index.Index = (*Index)(nil)
