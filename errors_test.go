package sequel

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"MissingAlias",
			&MissingAliasError{Source: "subquery"},
			"sequel: subquery used as a from source requires an alias; call As",
		},
		{
			"DuplicateSource",
			&DuplicateSourceError{Name: "person"},
			`sequel: duplicate from source "person"`,
		},
		{
			"ColumnReference",
			&ColumnReferenceError{Ref: "a.b.c"},
			`sequel: malformed column reference "a.b.c"`,
		},
		{
			"UnsupportedOperator",
			&UnsupportedOperatorError{Op: "between"},
			`sequel: unsupported operator "between"`,
		},
		{
			"InvalidTarget",
			&InvalidTargetError{Op: "insert", Reason: "multiple from sources"},
			"sequel: invalid insert target: multiple from sources",
		},
		{
			"PlaceholderCountMismatch",
			&PlaceholderCountMismatchError{Placeholders: 2, Args: 1},
			"sequel: raw template has 2 placeholders but 1 arguments",
		},
		{
			"InvalidIdentifier",
			&InvalidIdentifierError{Ident: "1abc"},
			`sequel: invalid identifier "1abc"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.want)
		})
	}
}

// TestErrorHelpers verifies that the IsX helpers match wrapped errors
// and reject everything else.
func TestErrorHelpers(t *testing.T) {
	t.Parallel()

	wrap := func(err error) error { return fmt.Errorf("compile: %w", err) }

	assert.True(t, IsMissingAlias(wrap(&MissingAliasError{Source: "raw"})))
	assert.True(t, IsDuplicateSource(wrap(&DuplicateSourceError{Name: "person"})))
	assert.True(t, IsColumnReference(wrap(&ColumnReferenceError{Ref: ""})))
	assert.True(t, IsUnsupportedOperator(wrap(&UnsupportedOperatorError{Op: "~"})))
	assert.True(t, IsInvalidTarget(wrap(&InvalidTargetError{Op: "delete", Reason: "x"})))
	assert.True(t, IsPlaceholderCountMismatch(wrap(&PlaceholderCountMismatchError{})))
	assert.True(t, IsInvalidIdentifier(wrap(&InvalidIdentifierError{Ident: ""})))

	assert.False(t, IsMissingAlias(ErrMissingFrom))
	assert.False(t, IsDuplicateSource(nil))
	assert.False(t, IsUnsupportedOperator(&ColumnReferenceError{Ref: "x"}))
}
