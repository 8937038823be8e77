// Package schema provisions the target tables. The DDL is embedded so the
// binary does not depend on its working directory; every statement is
// CREATE TABLE IF NOT EXISTS, making Ensure idempotent.
package schema

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed 001_init.sql
var ddl string

// Ensure creates the four target tables and their constraints if absent.
func Ensure(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
