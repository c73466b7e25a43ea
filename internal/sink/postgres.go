// Package sink loads a generated dataset into Postgres. Each table becomes
// a flat relation named after its identity; loading drops and recreates the
// relation, then streams rows with the binary copy protocol. The sink is
// optional; CSV files on disk remain the canonical output.
package sink

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salesynth/salesynth/internal/table"
)

// Sink wraps a connection pool to the target database.
type Sink struct {
	pool *pgxpool.Pool
}

// Connect opens a connection pool for the given DSN and verifies it with a
// ping.
func Connect(ctx context.Context, dsn string) (*Sink, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Sink{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Sink) Close() {
	s.pool.Close()
}

// RelationName derives the target relation name from a table identity.
func RelationName(id table.Identity) string {
	return fmt.Sprintf("%s_%s_%s", id.Category, id.Subcategory, id.Name)
}

func columnType(kind table.Kind) string {
	switch kind {
	case table.KindMoney, table.KindQuantity:
		return "NUMERIC(20,4)"
	case table.KindDate:
		return "DATE"
	case table.KindInteger:
		return "INTEGER"
	case table.KindBoolean:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

// CreateTable drops and recreates the relation for the given table.
func (s *Sink) CreateTable(ctx context.Context, t *table.Table) error {
	relation := RelationName(t.Identity())
	if _, err := s.pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", relation)); err != nil {
		return fmt.Errorf("drop relation %s: %w", relation, err)
	}

	columns := t.Columns()
	defs := make([]string, len(columns))
	for i, col := range columns {
		null := ""
		if col.Required {
			null = " NOT NULL"
		}
		defs[i] = fmt.Sprintf("%s %s%s", col.Name, columnType(col.Kind), null)
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", relation, strings.Join(defs, ", "))
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create relation %s: %w", relation, err)
	}
	return nil
}

// Load streams the table's rows into its relation with the copy protocol
// and returns the number of rows written.
func (s *Sink) Load(ctx context.Context, t *table.Table) (int64, error) {
	relation := RelationName(t.Identity())
	columns := t.Columns()
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}

	rows := make([][]any, t.Len())
	for i := 0; i < t.Len(); i++ {
		src := t.Row(i)
		row := make([]any, len(columns))
		for j, col := range columns {
			if src[j] == nil {
				continue
			}
			// Decimals travel as their canonical string form; pgx converts
			// them into NUMERIC server side.
			switch col.Kind {
			case table.KindMoney, table.KindQuantity:
				row[j] = table.FormatValue(col.Kind, src[j])
			default:
				row[j] = src[j]
			}
		}
		rows[i] = row
	}

	copied, err := s.pool.CopyFrom(ctx, pgx.Identifier{relation}, names, pgx.CopyFromRows(rows))
	if err != nil {
		return copied, fmt.Errorf("copy into %s: %w", relation, err)
	}
	return copied, nil
}

// LoadAll recreates and loads every table, returning total rows written.
func (s *Sink) LoadAll(ctx context.Context, tables []*table.Table) (int64, error) {
	var total int64
	for _, t := range tables {
		if err := s.CreateTable(ctx, t); err != nil {
			return total, err
		}
		n, err := s.Load(ctx, t)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
