// Package warehouse loads the CDC field exclude reference list from a
// Databricks SQL warehouse.
package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	dbsql "github.com/databricks/databricks-sql-go"
	"github.com/rs/zerolog/log"
)

// Names of the environment variables holding the connection parameters.
const (
	EnvHostname = "DATABRICKS_SERVER_HOSTNAME"
	EnvHTTPPath = "DATABRICKS_HTTP_PATH"
	EnvToken    = "DATABRICKS_ACCESS_TOKEN"
)

// excludeQuery is the fixed reference query. Only active rules apply.
const excludeQuery = `SELECT table_name, field_name FROM cdc_field_exclude_list WHERE active = true ORDER BY table_name, field_name`

// Config holds the Databricks connection parameters.
type Config struct {
	Hostname    string
	HTTPPath    string
	AccessToken string
}

// ExclusionMap maps an upper-cased table name to the upper-cased field names
// that must carry COLEXC statements. Built once per run, read-only afterwards.
type ExclusionMap map[string][]string

// Tables returns the table names in sorted order.
func (m ExclusionMap) Tables() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RefLoadError wraps any failure while loading the reference list.
type RefLoadError struct {
	Op  string // "connect", "query" or "scan"
	Err error
}

// Error implements the error interface.
func (e *RefLoadError) Error() string {
	return fmt.Sprintf("loading exclude reference list (%s): %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *RefLoadError) Unwrap() error { return e.Err }

// Client wraps the warehouse connection. Queries are written against *sql.DB
// so tests can substitute a mock.
type Client struct {
	DB *sql.DB
}

// Connect opens a Databricks SQL connection from cfg. The connection is
// verified with a ping so failures surface here rather than on first query.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	connector, err := dbsql.NewConnector(
		dbsql.WithServerHostname(cfg.Hostname),
		dbsql.WithHTTPPath(cfg.HTTPPath),
		dbsql.WithAccessToken(cfg.AccessToken),
		dbsql.WithPort(443),
	)
	if err != nil {
		return nil, &RefLoadError{Op: "connect", Err: err}
	}

	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &RefLoadError{Op: "connect", Err: err}
	}

	log.Info().Str("hostname", cfg.Hostname).Msg("connected to Databricks")
	return &Client{DB: db}, nil
}

// Close releases the warehouse connection.
func (c *Client) Close() error {
	if c.DB == nil {
		return nil
	}
	log.Debug().Msg("closing warehouse connection")
	return c.DB.Close()
}

// LoadExclusions runs the reference query and groups rows by table name.
// Both table and field names are upper-cased so later matching is
// case-insensitive.
func (c *Client) LoadExclusions(ctx context.Context) (ExclusionMap, error) {
	if c.DB == nil {
		return nil, &RefLoadError{Op: "query", Err: errors.New("connection not established")}
	}

	rows, err := c.DB.QueryContext(ctx, excludeQuery)
	if err != nil {
		return nil, &RefLoadError{Op: "query", Err: err}
	}
	defer rows.Close()

	excl := ExclusionMap{}
	for rows.Next() {
		var table, field string
		if err := rows.Scan(&table, &field); err != nil {
			return nil, &RefLoadError{Op: "scan", Err: err}
		}
		table = strings.ToUpper(table)
		excl[table] = append(excl[table], strings.ToUpper(field))
	}
	if err := rows.Err(); err != nil {
		return nil, &RefLoadError{Op: "query", Err: err}
	}

	log.Info().Int("tables", len(excl)).Msg("exclude rules loaded")
	for _, table := range excl.Tables() {
		log.Info().Str("table", table).Str("fields", strings.Join(excl[table], ", ")).Msg("requires COLEXC")
	}
	return excl, nil
}
