// Package roster loads, inserts and deletes student rows in a caller-named
// PostgreSQL table with mssv and hoten columns.
package roster

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/alextreichler/shopfront/internal/models"
)

// ConnParams mirrors the connection form: database name, user, password, host and port.
type ConnParams struct {
	DBName   string
	User     string
	Password string
	Host     string
	Port     uint16
}

// DSN renders p as a libpq keyword/value connection string.
func (p ConnParams) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		quoteValue(p.Host), p.Port, quoteValue(p.User), quoteValue(p.Password), quoteValue(p.DBName))
}

func (p ConnParams) String() string {
	return fmt.Sprintf("%s@%s:%d/%s", p.User, p.Host, p.Port, p.DBName)
}

func quoteValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// Repo runs roster statements over a single connection. It is not safe for
// concurrent use.
type Repo struct {
	conn *pgx.Conn
}

// Connect opens one connection and pings it. There is no retry.
func Connect(ctx context.Context, p ConnParams) (*Repo, error) {
	conn, err := pgx.Connect(ctx, p.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", p, err)
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("ping %s: %w", p, err)
	}
	return &Repo{conn: conn}, nil
}

func (r *Repo) Close(ctx context.Context) error {
	if r == nil || r.conn == nil {
		return nil
	}
	return r.conn.Close(ctx)
}

func (r *Repo) connected() bool {
	return r != nil && r.conn != nil && !r.conn.IsClosed()
}

// tableIdent quotes table as a single SQL identifier.
func tableIdent(table string) (string, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return "", ErrInvalidTable
	}
	return pgx.Identifier{table}.Sanitize(), nil
}

// EnsureTable creates table with mssv as primary key if it does not exist.
func (r *Repo) EnsureTable(ctx context.Context, table string) error {
	ident, err := tableIdent(table)
	if err != nil {
		return err
	}
	if !r.connected() {
		return ErrNotConnected
	}
	query := "CREATE TABLE IF NOT EXISTS " + ident + " (mssv TEXT PRIMARY KEY, hoten TEXT NOT NULL)"
	if _, err := r.conn.Exec(ctx, query); err != nil {
		return &QueryError{Op: "create", Table: table, Err: err}
	}
	return nil
}

// Load returns every row of table. Columns are read as text so any column
// type displays.
func (r *Repo) Load(ctx context.Context, table string) ([]models.Student, error) {
	ident, err := tableIdent(table)
	if err != nil {
		return nil, err
	}
	if !r.connected() {
		return nil, ErrNotConnected
	}

	rows, err := r.conn.Query(ctx, "SELECT mssv::text, hoten::text FROM "+ident)
	if err != nil {
		return nil, &QueryError{Op: "load", Table: table, Err: err}
	}
	students, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Student, error) {
		var s models.Student
		err := row.Scan(&s.MSSV, &s.FullName)
		return s, err
	})
	if err != nil {
		return nil, &QueryError{Op: "load", Table: table, Err: err}
	}
	return students, nil
}

// Insert adds one student row.
func (r *Repo) Insert(ctx context.Context, table string, s models.Student) error {
	ident, err := tableIdent(table)
	if err != nil {
		return err
	}
	if strings.TrimSpace(s.MSSV) == "" {
		return ErrEmptyID
	}
	if !r.connected() {
		return ErrNotConnected
	}

	query := "INSERT INTO " + ident + " (mssv, hoten) VALUES ($1, $2)"
	if _, err := r.conn.Exec(ctx, query, s.MSSV, s.FullName); err != nil {
		return &QueryError{Op: "insert", Table: table, Err: err}
	}
	return nil
}

// Delete removes each id with its own auto-committed statement, in order.
// Rows deleted before a failing statement stay deleted; the returned count
// covers them.
func (r *Repo) Delete(ctx context.Context, table string, ids []string) (int, error) {
	ident, err := tableIdent(table)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, ErrNoSelection
	}
	if !r.connected() {
		return 0, ErrNotConnected
	}

	query := "DELETE FROM " + ident + " WHERE mssv::text = $1"
	deleted := 0
	for _, id := range ids {
		tag, err := r.conn.Exec(ctx, query, id)
		if err != nil {
			return deleted, &QueryError{Op: "delete", Table: table, Err: fmt.Errorf("mssv %s: %w", id, err)}
		}
		deleted += int(tag.RowsAffected())
	}
	return deleted, nil
}
