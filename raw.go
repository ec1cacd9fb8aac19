package sequel

import (
	"fmt"

	"github.com/syssam/sequel/ast"
)

// RawFragment is a parsed raw SQL template together with its ordered
// argument list. It is immutable; As returns a tagged copy usable as a
// from source, the fragment itself is only valid in expression position
// (select list, where operands).
//
// The template mini-protocol has two placeholder tokens:
//
//	?   binds the next argument as a driver parameter (never
//	    interpolated into the SQL text)
//	??  renders the next argument, which must be a string, as a
//	    dialect-quoted identifier ("a.b" becomes "a"."b")
//
// There is no escape sequence for a literal ? character in template
// text; this is a known gap of the protocol, carried as-is.
type RawFragment struct {
	node *ast.RawNode
	err  error
}

// Raw parses template into a raw fragment. Placeholders consume args in
// strict left-to-right order; the total placeholder count must equal
// len(args) exactly, otherwise the fragment carries a
// PlaceholderCountMismatchError that surfaces when the fragment is used.
func Raw(template string, args ...any) *RawFragment {
	node, err := parseRaw(template, args)
	if err != nil {
		return &RawFragment{err: err}
	}
	return &RawFragment{node: node}
}

// Err returns the parse error carried by the fragment, if any.
func (r *RawFragment) Err() error { return r.err }

// Node returns the underlying raw node, or the parse error.
func (r *RawFragment) Node() (*ast.RawNode, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.node, nil
}

// As tags the fragment with an alias so it can be used as a from source.
func (r *RawFragment) As(alias string) Source {
	return rawSource{raw: r, alias: alias}
}

// resolve implements Source. An untagged fragment is not a valid from
// entry.
func (r *RawFragment) resolve() (ast.Source, error) {
	if r.err != nil {
		return nil, r.err
	}
	return nil, &MissingAliasError{Source: "raw"}
}

// parseRaw scans template left to right. The two-character identifier
// token ?? is matched before the one-character value token ?, since the
// latter is a prefix of the former.
func parseRaw(template string, args []any) (*ast.RawNode, error) {
	var (
		tokens []ast.RawToken
		used   int
		start  = 0
	)
	flush := func(end int) {
		if end > start {
			tokens = append(tokens, ast.RawToken{Kind: ast.TokenText, Text: template[start:end]})
		}
	}
	for i := 0; i < len(template); {
		if template[i] != '?' {
			i++
			continue
		}
		flush(i)
		kind := ast.TokenValue
		width := 1
		if i+1 < len(template) && template[i+1] == '?' {
			kind = ast.TokenIdent
			width = 2
		}
		if used < len(args) && kind == ast.TokenIdent {
			if _, ok := args[used].(string); !ok {
				return nil, &InvalidIdentifierError{Ident: fmt.Sprint(args[used])}
			}
		}
		tokens = append(tokens, ast.RawToken{Kind: kind})
		used++
		i += width
		start = i
	}
	flush(len(template))
	if used != len(args) {
		return nil, &PlaceholderCountMismatchError{Placeholders: used, Args: len(args)}
	}
	return &ast.RawNode{Tokens: tokens, Args: args}, nil
}
