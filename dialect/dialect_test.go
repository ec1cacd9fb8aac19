package dialect

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestQuoterIdent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dialect string
		ident   string
		want    string
	}{
		{"Postgres", Postgres, "person", `"person"`},
		{"SQLite", SQLite, "person", `"person"`},
		{"MySQL", MySQL, "person", "`person`"},
		{"Unknown", "oracle", "person", `"person"`},
		{"EmbeddedQuote", Postgres, `na"me`, `"na""me"`},
		{"EmbeddedBacktick", MySQL, "na`me", "`na``me`"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, For(tt.dialect).Ident(tt.ident))
		})
	}
}

func TestQualifiedIdent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"person"."id"`, For(Postgres).QualifiedIdent("person.id"))
	assert.Equal(t, "`person`.`id`", For(MySQL).QualifiedIdent("person.id"))
	assert.Equal(t, `"id"`, For(Postgres).QualifiedIdent("id"))
}

// TestQuoterMatchesPq cross-checks the postgres policy against the
// escaping lib/pq applies on the driver side.
func TestQuoterMatchesPq(t *testing.T) {
	t.Parallel()

	for _, ident := range []string{"person", "first_name", `we"ird`, "UPPER"} {
		assert.Equal(t, pq.QuoteIdentifier(ident), For(Postgres).Ident(ident))
	}
}

func TestPlaceholder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$1", Placeholder(Postgres, 1))
	assert.Equal(t, "$12", Placeholder(Postgres, 12))
	assert.Equal(t, "?", Placeholder(MySQL, 3))
	assert.Equal(t, "?", Placeholder(SQLite, 1))
}
