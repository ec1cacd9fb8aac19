// Package dialect provides the database dialect abstraction for sequel.
//
// A dialect contributes two things to query compilation: an identifier
// quoting policy and a bind-placeholder format. The package also defines
// the Driver/Tx/ExecQuerier interfaces that connect compiled statements
// to an execution layer.
package dialect

import (
	"context"
	"strconv"
	"strings"
)

// Supported dialect names.
const (
	// Postgres is the PostgreSQL dialect: ANSI double-quoted
	// identifiers, $n placeholders.
	Postgres = "postgres"
	// MySQL is the MySQL/MariaDB dialect: backtick-quoted identifiers,
	// ? placeholders.
	MySQL = "mysql"
	// SQLite is the SQLite dialect: ANSI double-quoted identifiers,
	// ? placeholders.
	SQLite = "sqlite"
)

// Quoter is an identifier quoting policy. The zero value is not useful;
// use For to obtain the policy for a dialect.
type Quoter struct {
	quote byte
}

var (
	ansiQuoter  = Quoter{quote: '"'}
	mysqlQuoter = Quoter{quote: '`'}
)

// For returns the quoting policy for the named dialect. Unknown names
// fall back to the ANSI double-quote policy.
func For(dialect string) Quoter {
	if dialect == MySQL {
		return mysqlQuoter
	}
	return ansiQuoter
}

// Ident quotes a single identifier segment. Embedded quote characters
// are doubled, following the SQL escaping convention.
func (q Quoter) Ident(name string) string {
	qc := string(q.quote)
	return qc + strings.ReplaceAll(name, qc, qc+qc) + qc
}

// QualifiedIdent splits name on "." and quotes each segment, so that
// "person.id" renders as "person"."id".
func (q Quoter) QualifiedIdent(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = q.Ident(p)
	}
	return strings.Join(parts, ".")
}

// Placeholder returns the n-th (1-based) bind placeholder for the named
// dialect: $n for postgres, ? for everything else.
func Placeholder(dialect string, n int) string {
	if dialect == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// ExecQuerier wraps the basic Exec and Query methods an execution layer
// must provide. It is implemented by both Driver and Tx.
type ExecQuerier interface {
	// Exec executes a statement that does not return rows. The args
	// parameter is the ordered bound-parameter list produced by
	// compilation, and v is an optional *sql.Result destination.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a statement that returns rows into v.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface an execution backend implements. The core
// library never opens, pools or caches connections itself; it only hands
// compiled (query, args) pairs to a Driver supplied by the caller.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	Tx(ctx context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx is a transactional ExecQuerier.
type Tx interface {
	ExecQuerier
	Commit() error
	Rollback() error
}
