package marketdata

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver
)

// PostgresFixingFeed reads fixings from a Postgres table with columns
// (index_name text, fixing_date date, value double precision).
type PostgresFixingFeed struct {
	db    *sql.DB
	table string
}

// NewPostgresFixingFeed opens a feed over the given DSN and table name.
func NewPostgresFixingFeed(dsn, table string) (*PostgresFixingFeed, error) {
	if table == "" {
		return nil, fmt.Errorf("NewPostgresFixingFeed: table is required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("NewPostgresFixingFeed: %w", err)
	}
	return &PostgresFixingFeed{db: db, table: table}, nil
}

func (f *PostgresFixingFeed) Fixing(index string, date time.Time) (float64, bool) {
	query := fmt.Sprintf(
		"SELECT value FROM %s WHERE index_name = $1 AND fixing_date = $2", f.table)

	var value float64
	err := f.db.QueryRow(query, index, date.Format("2006-01-02")).Scan(&value)
	if err != nil {
		return 0, false
	}
	return value, true
}

// Close releases the underlying connection pool.
func (f *PostgresFixingFeed) Close() error {
	return f.db.Close()
}
