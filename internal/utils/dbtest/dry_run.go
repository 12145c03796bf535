// Package dbtest opens a Postgres-dialect gorm handle that renders queries without a server.
package dbtest

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type (
	Statement struct {
		SQL  string
		Vars []interface{}
	}

	Recorder struct {
		mu         sync.Mutex
		statements []Statement
	}
)

// Open returns a DryRun handle and a recorder of every SELECT it builds.
func Open(t *testing.T) (*gorm.DB, *Recorder) {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=foodgram dbname=foodgram sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	rec := &Recorder{}
	err = db.Callback().Query().After("gorm:query").Register("dbtest:record", func(tx *gorm.DB) {
		vars := make([]interface{}, len(tx.Statement.Vars))
		copy(vars, tx.Statement.Vars)
		rec.mu.Lock()
		rec.statements = append(rec.statements, Statement{SQL: tx.Statement.SQL.String(), Vars: vars})
		rec.mu.Unlock()
	})
	require.NoError(t, err)
	return db, rec
}

func (r *Recorder) All() []Statement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Statement(nil), r.statements...)
}

// Find returns the recorded statements whose SQL contains every fragment.
func (r *Recorder) Find(fragments ...string) []Statement {
	var found []Statement
	for _, stmt := range r.All() {
		matched := true
		for _, fragment := range fragments {
			if !strings.Contains(stmt.SQL, fragment) {
				matched = false
				break
			}
		}
		if matched {
			found = append(found, stmt)
		}
	}
	return found
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.statements = nil
	r.mu.Unlock()
}
