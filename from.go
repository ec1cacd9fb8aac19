package sequel

import (
	"regexp"
	"strings"

	"github.com/syssam/sequel/ast"
)

// Source is anything that can appear as a from entry: a table reference,
// an aliased subquery or an aliased raw fragment. The set of
// implementations is closed; construct sources with Table, Builder.As or
// RawFragment.As.
type Source interface {
	resolve() (ast.Source, error)
}

// identRe validates a single identifier segment, matching the rule used
// for session variables and schema names elsewhere in the module.
var identRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// isValidIdent reports whether s is a plain SQL identifier.
func isValidIdent(s string) bool {
	return s != "" && len(s) <= 128 && identRe.MatchString(s)
}

// isValidName reports whether s is a valid, possibly dot-qualified name
// such as "person" or "public.person".
func isValidName(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if !isValidIdent(part) {
			return false
		}
	}
	return true
}

// asRe splits a "name as alias" expression on a case-insensitive as
// keyword. The split happens at most once; the surrounding whitespace is
// consumed by the pattern.
var asRe = regexp.MustCompile(`(?i)\s+as\s+`)

// Table returns a from source for a table expression: either a bare name
// ("person", "public.person") or an aliased one ("person as p", case
// insensitive). Invalid names or aliases surface as an
// InvalidIdentifierError when the source is used.
func Table(expr string) Source {
	name, alias := strings.TrimSpace(expr), ""
	if loc := asRe.FindStringIndex(name); loc != nil {
		name, alias = name[:loc[0]], name[loc[1]:]
	}
	return tableSource{name: name, alias: alias}
}

type tableSource struct {
	name  string
	alias string
}

func (t tableSource) resolve() (ast.Source, error) {
	if !isValidName(t.name) {
		return nil, &InvalidIdentifierError{Ident: t.name}
	}
	if t.alias != "" && !isValidIdent(t.alias) {
		return nil, &InvalidIdentifierError{Ident: t.alias}
	}
	return &ast.TableNode{Name: t.name, Alias: t.alias}, nil
}

type rawSource struct {
	raw   *RawFragment
	alias string
}

func (r rawSource) resolve() (ast.Source, error) {
	node, err := r.raw.Node()
	if err != nil {
		return nil, err
	}
	if !isValidIdent(r.alias) {
		return nil, &InvalidIdentifierError{Ident: r.alias}
	}
	return &ast.RawSourceNode{Raw: node, Alias: r.alias}, nil
}

type subquerySource struct {
	builder *Builder
	alias   string
}

func (s subquerySource) resolve() (ast.Source, error) {
	node, err := s.builder.Node()
	if err != nil {
		return nil, err
	}
	if !isValidIdent(s.alias) {
		return nil, &InvalidIdentifierError{Ident: s.alias}
	}
	return &ast.SubqueryNode{Query: node, Alias: s.alias}, nil
}

// resolveSources turns the caller-supplied sources into an ordered from
// node, preserving input order exactly. Uniqueness of aliases and
// unaliased table names is a whole-tree property (join targets count
// too) and is validated at compile time instead.
func resolveSources(sources []Source) (*ast.FromNode, error) {
	resolved := make([]ast.Source, 0, len(sources))
	for _, s := range sources {
		n, err := s.resolve()
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, n)
	}
	return &ast.FromNode{Sources: resolved}, nil
}

// parseColumnRef parses a column-reference string: "col", "table.col" or
// either form followed by "as alias". It returns the reference and the
// alias, or a ColumnReferenceError.
func parseColumnRef(expr string) (ast.ColumnRef, string, error) {
	ref, alias := strings.TrimSpace(expr), ""
	if loc := asRe.FindStringIndex(ref); loc != nil {
		ref, alias = ref[:loc[0]], ref[loc[1]:]
		if !isValidIdent(alias) {
			return ast.ColumnRef{}, "", &ColumnReferenceError{Ref: expr}
		}
	}
	var c ast.ColumnRef
	switch parts := strings.Split(ref, "."); len(parts) {
	case 1:
		c = ast.ColumnRef{Name: parts[0]}
	case 2:
		if !isValidIdent(parts[0]) {
			return ast.ColumnRef{}, "", &ColumnReferenceError{Ref: expr}
		}
		c = ast.ColumnRef{Table: parts[0], Name: parts[1]}
	default:
		return ast.ColumnRef{}, "", &ColumnReferenceError{Ref: expr}
	}
	if !isValidIdent(c.Name) {
		return ast.ColumnRef{}, "", &ColumnReferenceError{Ref: expr}
	}
	return c, alias, nil
}
