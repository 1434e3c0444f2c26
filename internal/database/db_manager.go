package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Entry is one evaluated input line.
type Entry struct {
	ID        int64
	SessionID string
	Seq       int
	Line      string
	OK        bool
	Error     string
	CreatedAt time.Time
}

// Store journals evaluated lines in a SQL database.
type Store struct {
	DB     *sql.DB
	Type   string // sqlite, postgres, mysql, sqlserver
	driver string
}

// Open connects to the history database and makes sure the table exists.
func Open(ctx context.Context, dbType, dsn string) (*Store, error) {
	// Map to proper driver name
	var driverName string
	switch dbType {
	case "", "sqlite", "sqlite3":
		dbType, driverName = "sqlite", "sqlite"
	case "postgres", "postgresql":
		dbType, driverName = "postgres", "postgres"
	case "mysql":
		driverName = "mysql"
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		dsn = cfg.FormatDSN()
	case "sqlserver", "mssql":
		dbType, driverName = "sqlserver", "sqlserver"
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Configure connection pool
	if dbType == "sqlite" {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &Store{DB: db, Type: dbType, driver: driverName}
	if _, err := db.ExecContext(ctx, s.schema()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}
	return s, nil
}

func (s *Store) schema() string {
	switch s.Type {
	case "postgres":
		return `CREATE TABLE IF NOT EXISTS loq_history (
			id BIGSERIAL PRIMARY KEY,
			session_id VARCHAR(36) NOT NULL,
			seq INTEGER NOT NULL,
			line_text TEXT NOT NULL,
			ok BOOLEAN NOT NULL,
			error_text TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL)`
	case "mysql":
		return `CREATE TABLE IF NOT EXISTS loq_history (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			session_id VARCHAR(36) NOT NULL,
			seq INT NOT NULL,
			line_text TEXT NOT NULL,
			ok BOOLEAN NOT NULL,
			error_text TEXT NOT NULL,
			created_at DATETIME(6) NOT NULL)`
	case "sqlserver":
		return `IF OBJECT_ID('loq_history', 'U') IS NULL CREATE TABLE loq_history (
			id BIGINT IDENTITY(1,1) PRIMARY KEY,
			session_id VARCHAR(36) NOT NULL,
			seq INT NOT NULL,
			line_text NVARCHAR(MAX) NOT NULL,
			ok BIT NOT NULL,
			error_text NVARCHAR(MAX) NOT NULL,
			created_at DATETIME2 NOT NULL)`
	}
	return `CREATE TABLE IF NOT EXISTS loq_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		line_text TEXT NOT NULL,
		ok BOOLEAN NOT NULL,
		error_text TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL)`
}

// rebind rewrites '?' placeholders for drivers that number their parameters.
func (s *Store) rebind(query string) string {
	var prefix string
	switch s.driver {
	case "postgres":
		prefix = "$"
	case "sqlserver":
		prefix = "@p"
	default:
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(prefix)
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Record appends an entry.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.DB.ExecContext(ctx, s.rebind(
		`INSERT INTO loq_history (session_id, seq, line_text, ok, error_text, created_at) VALUES (?, ?, ?, ?, ?, ?)`),
		e.SessionID, e.Seq, e.Line, e.OK, e.Error, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record line: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	cols := `id, session_id, seq, line_text, ok, error_text, created_at`
	var query string
	if s.Type == "sqlserver" {
		query = fmt.Sprintf(`SELECT TOP (%d) %s FROM loq_history ORDER BY id DESC`, n, cols)
	} else {
		query = fmt.Sprintf(`SELECT %s FROM loq_history ORDER BY id DESC LIMIT %d`, cols, n)
	}
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Seq, &e.Line, &e.OK, &e.Error, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to read history: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Replay returns every recorded line of a session in order. Failed lines are
// included since a line can bind variables before the statement that fails.
func (s *Store) Replay(ctx context.Context, sessionID string) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, s.rebind(
		`SELECT line_text FROM loq_history WHERE session_id = ? ORDER BY seq`),
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("no recorded lines for session %s", sessionID)
	}
	return lines, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.DB.Close()
}
