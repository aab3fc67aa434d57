// Package testinfra holds database fixtures for repository tests: a dry-run
// gorm handle for statement tests and throwaway Postgres containers for
// integration tests.
package testinfra

import (
	"testing"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DryRunDB returns a Postgres-dialect gorm handle that builds statements
// without connecting. Writes skip the implicit transaction, whose Begin would
// dial the server.
func DryRunDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DriverName: "postgres",
		DSN:        "host=localhost user=test dbname=test sslmode=disable",
	}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

// StatementRecorder keeps the SQL of every statement built through a dry-run
// handle, with bound values inlined.
type StatementRecorder struct {
	statements []string
}

// RecordStatements hooks db so every create, query, update and delete
// statement is captured.
func RecordStatements(t *testing.T, db *gorm.DB) *StatementRecorder {
	t.Helper()

	r := &StatementRecorder{}
	record := func(tx *gorm.DB) {
		if tx.Statement.SQL.Len() == 0 {
			return
		}
		r.statements = append(r.statements, tx.Dialector.Explain(tx.Statement.SQL.String(), tx.Statement.Vars...))
	}

	cb := db.Callback()
	for _, err := range []error{
		cb.Create().After("gorm:create").Register("testinfra:record", record),
		cb.Query().After("gorm:query").Register("testinfra:record", record),
		cb.Update().After("gorm:update").Register("testinfra:record", record),
		cb.Delete().After("gorm:delete").Register("testinfra:record", record),
	} {
		if err != nil {
			t.Fatalf("register recorder: %v", err)
		}
	}
	return r
}

// Statements returns everything recorded so far.
func (r *StatementRecorder) Statements() []string {
	return r.statements
}

// Last returns the most recent statement, or "" when none was built.
func (r *StatementRecorder) Last() string {
	if len(r.statements) == 0 {
		return ""
	}
	return r.statements[len(r.statements)-1]
}
