package sequel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sequel/ast"
)

func TestRawParse(t *testing.T) {
	t.Parallel()

	r := Raw("coalesce(??, ?) > ?", "person.nickname", "n/a", 10)
	require.NoError(t, r.Err())
	node, err := r.Node()
	require.NoError(t, err)

	assert.Equal(t, []ast.RawToken{
		{Kind: ast.TokenText, Text: "coalesce("},
		{Kind: ast.TokenIdent},
		{Kind: ast.TokenText, Text: ", "},
		{Kind: ast.TokenValue},
		{Kind: ast.TokenText, Text: ") > "},
		{Kind: ast.TokenValue},
	}, node.Tokens)
	assert.Equal(t, []any{"person.nickname", "n/a", 10}, node.Args)
}

// TestRawLongestMatchFirst verifies that ?? is matched before ?, since
// the value token is a prefix of the identifier token.
func TestRawLongestMatchFirst(t *testing.T) {
	t.Parallel()

	r := Raw("???", "person.id", 1)
	require.NoError(t, r.Err())
	node, err := r.Node()
	require.NoError(t, err)

	assert.Equal(t, []ast.RawToken{
		{Kind: ast.TokenIdent},
		{Kind: ast.TokenValue},
	}, node.Tokens)
}

func TestRawPlaceholderArity(t *testing.T) {
	t.Parallel()

	t.Run("TooFewArgs", func(t *testing.T) {
		r := Raw("? ?", 1)
		require.Error(t, r.Err())
		assert.True(t, IsPlaceholderCountMismatch(r.Err()))

		var e *PlaceholderCountMismatchError
		require.ErrorAs(t, r.Err(), &e)
		assert.Equal(t, 2, e.Placeholders)
		assert.Equal(t, 1, e.Args)
	})

	t.Run("TooManyArgs", func(t *testing.T) {
		r := Raw("?", 1, 2)
		assert.True(t, IsPlaceholderCountMismatch(r.Err()))
	})

	t.Run("Exact", func(t *testing.T) {
		r := Raw("?", 1)
		require.NoError(t, r.Err())
		node, err := r.Node()
		require.NoError(t, err)
		assert.Equal(t, []any{1}, node.Args)
	})

	t.Run("NoPlaceholders", func(t *testing.T) {
		r := Raw("now()")
		require.NoError(t, r.Err())
		node, err := r.Node()
		require.NoError(t, err)
		assert.Equal(t, []ast.RawToken{{Kind: ast.TokenText, Text: "now()"}}, node.Tokens)
		assert.Empty(t, node.Args)
	})
}

func TestRawIdentifierArgMustBeString(t *testing.T) {
	t.Parallel()

	r := Raw("??", 42)
	assert.True(t, IsInvalidIdentifier(r.Err()))
}

func TestRawNodeAfterError(t *testing.T) {
	t.Parallel()

	r := Raw("?", 1, 2)
	node, err := r.Node()
	assert.Nil(t, node)
	assert.Error(t, err)
}

// TestRawAsSource verifies the from-source tagging rules: an untagged
// fragment is only valid in expression position.
func TestRawAsSource(t *testing.T) {
	t.Parallel()

	t.Run("Untagged", func(t *testing.T) {
		_, err := Raw("(select 1)").resolve()
		assert.True(t, IsMissingAlias(err))
	})

	t.Run("Tagged", func(t *testing.T) {
		src, err := Raw("(select 1)").As("one").resolve()
		require.NoError(t, err)
		rs, ok := src.(*ast.RawSourceNode)
		require.True(t, ok)
		assert.Equal(t, "one", rs.Alias)
	})

	t.Run("BadAlias", func(t *testing.T) {
		_, err := Raw("(select 1)").As("1bad").resolve()
		assert.True(t, IsInvalidIdentifier(err))
	})

	t.Run("ParseErrorWins", func(t *testing.T) {
		_, err := Raw("?", 1, 2).As("x").resolve()
		assert.True(t, IsPlaceholderCountMismatch(err))
	})
}
