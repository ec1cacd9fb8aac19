package sequel

import (
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/sequel/ast"
)

// Builder is an immutable fluent query builder wrapping a single
// operation node tree. Every method returns a new Builder derived by
// clone-with-patch; the receiver is never mutated, so a previously
// obtained builder stays valid and unchanged after deriving others from
// it, and any number of builders may be read, extended or compiled
// concurrently.
//
// Structural validation failures detected during a fluent call are
// carried on the derived builder and surfaced by the terminal calls
// Node and Compile; once a builder carries an error, further calls are
// no-ops that keep the first error.
type Builder struct {
	node *ast.QueryNode
	err  error
}

// New returns a builder holding an empty select query.
func New() *Builder {
	return &Builder{node: ast.NewQuery()}
}

// Query is shorthand for New().From(sources...).
func Query(sources ...Source) *Builder {
	return New().From(sources...)
}

// fail derives a builder that keeps the current tree and carries err.
func (b *Builder) fail(err error) *Builder {
	return &Builder{node: b.node, err: err}
}

// Err returns the first error carried by the builder, if any.
func (b *Builder) Err() error { return b.err }

// Node returns the current root operation node. The tree is immutable,
// so no copy is made; the returned node is fully self-describing and is
// the contract between construction and compilation/execution.
func (b *Builder) Node() (*ast.QueryNode, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.node, nil
}

// Compile walks the tree and returns the SQL text and the ordered
// bound-parameter list for the named dialect.
func (b *Builder) Compile(dialect string) (string, []any, error) {
	node, err := b.Node()
	if err != nil {
		return "", nil, err
	}
	return compileQuery(node, dialect)
}

// From replaces the entire from clause with the given sources, in order.
// Repeated From calls on one query have no natural append semantics, so
// the last call wins.
func (b *Builder) From(sources ...Source) *Builder {
	if b.err != nil {
		return b
	}
	from, err := resolveSources(sources)
	if err != nil {
		return b.fail(err)
	}
	return &Builder{node: b.node.WithFrom(from)}
}

// Select appends selections. Each item is either a column-reference
// string ("col", "table.col", "table.col as alias"), a *RawFragment for
// a computed expression, or the result of RawFragment.As for a named
// computed column.
func (b *Builder) Select(items ...any) *Builder {
	if b.err != nil {
		return b
	}
	if b.node.From == nil {
		return b.fail(ErrMissingFrom)
	}
	ss := make([]ast.Selection, 0, len(items))
	for _, item := range items {
		switch x := item.(type) {
		case string:
			ref, alias, err := parseColumnRef(x)
			if err != nil {
				return b.fail(err)
			}
			ss = append(ss, ast.ColumnSelection{Ref: ref, Alias: alias})
		case *RawFragment:
			node, err := x.Node()
			if err != nil {
				return b.fail(err)
			}
			ss = append(ss, ast.RawSelection{Raw: node})
		case rawSource:
			node, err := x.raw.Node()
			if err != nil {
				return b.fail(err)
			}
			if !isValidIdent(x.alias) {
				return b.fail(&InvalidIdentifierError{Ident: x.alias})
			}
			ss = append(ss, ast.RawSelection{Raw: node, Alias: x.alias})
		default:
			return b.fail(fmt.Errorf("sequel: unsupported select item type %T", item))
		}
	}
	return &Builder{node: b.node.AppendSelections(ss...)}
}

// operators is the whitelist of where operators, keyed by their
// normalized (lowercase, single-spaced) form.
var operators = map[string]struct{}{
	"=": {}, "!=": {}, "<>": {},
	"<": {}, "<=": {}, ">": {}, ">=": {},
	"in": {}, "not in": {},
	"like": {}, "not like": {},
	"is": {}, "is not": {},
}

// Where appends a predicate; multiple predicates are conjoined with AND
// in call order. Operand classification: a string is a column
// reference, a *RawFragment is embedded raw SQL, Column and Value force
// an explicit classification, and any other Go value becomes a bound
// parameter. The operator must be on the supported whitelist
// (case-insensitive), otherwise the builder fails with
// UnsupportedOperatorError.
func (b *Builder) Where(lhs any, op string, rhs any) *Builder {
	if b.err != nil {
		return b
	}
	if b.node.From == nil {
		return b.fail(ErrMissingFrom)
	}
	norm := strings.Join(strings.Fields(strings.ToLower(op)), " ")
	if _, ok := operators[norm]; !ok {
		return b.fail(&UnsupportedOperatorError{Op: op})
	}
	left, err := operandOf(lhs)
	if err != nil {
		return b.fail(err)
	}
	right, err := operandOf(rhs)
	if err != nil {
		return b.fail(err)
	}
	return &Builder{node: b.node.AppendWhere(&ast.WhereNode{Left: left, Op: norm, Right: right})}
}

// InnerJoin appends an inner join of target on left = right.
func (b *Builder) InnerJoin(target Source, left, right string) *Builder {
	return b.join(ast.JoinInner, target, left, right)
}

// LeftJoin appends a left join of target on left = right.
func (b *Builder) LeftJoin(target Source, left, right string) *Builder {
	return b.join(ast.JoinLeft, target, left, right)
}

// RightJoin appends a right join of target on left = right.
func (b *Builder) RightJoin(target Source, left, right string) *Builder {
	return b.join(ast.JoinRight, target, left, right)
}

// FullJoin appends a full join of target on left = right.
func (b *Builder) FullJoin(target Source, left, right string) *Builder {
	return b.join(ast.JoinFull, target, left, right)
}

func (b *Builder) join(kind ast.JoinKind, target Source, left, right string) *Builder {
	if b.err != nil {
		return b
	}
	if b.node.From == nil {
		return b.fail(ErrMissingFrom)
	}
	src, err := target.resolve()
	if err != nil {
		return b.fail(err)
	}
	lref, lalias, err := parseColumnRef(left)
	if err == nil && lalias != "" {
		err = &ColumnReferenceError{Ref: left}
	}
	if err != nil {
		return b.fail(err)
	}
	rref, ralias, err := parseColumnRef(right)
	if err == nil && ralias != "" {
		err = &ColumnReferenceError{Ref: right}
	}
	if err != nil {
		return b.fail(err)
	}
	j := &ast.JoinNode{Kind: kind, Target: src, Left: lref, Right: rref}
	return &Builder{node: b.node.AppendJoin(j)}
}

// Insert switches the query into an insert of the given row. Row keys
// are sorted so compilation is deterministic.
func (b *Builder) Insert(row map[string]any) *Builder {
	return b.mutate(ast.KindInsert, "insert", row)
}

// Update switches the query into an update applying the given partial
// row. Row keys are sorted so compilation is deterministic.
func (b *Builder) Update(row map[string]any) *Builder {
	return b.mutate(ast.KindUpdate, "update", row)
}

// Delete switches the query into a delete.
func (b *Builder) Delete() *Builder {
	return b.mutate(ast.KindDelete, "delete", nil)
}

// mutate validates the mutation target and switches the query kind.
// Mutations are valid only against a single, unaliased table reference
// with no joins attached.
func (b *Builder) mutate(kind ast.QueryKind, op string, row map[string]any) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.mutationTarget(op); err != nil {
		return b.fail(err)
	}
	node := b.node.WithKind(kind)
	if row != nil {
		as := make([]ast.Assignment, 0, len(row))
		cols := make([]string, 0, len(row))
		for col := range row {
			cols = append(cols, col)
		}
		slices.Sort(cols)
		for _, col := range cols {
			if !isValidIdent(col) {
				return b.fail(&InvalidIdentifierError{Ident: col})
			}
			as = append(as, ast.Assignment{Column: col, Value: row[col]})
		}
		node = node.WithAssignments(as)
	}
	return &Builder{node: node}
}

func (b *Builder) mutationTarget(op string) error {
	from := b.node.From
	switch {
	case from == nil || len(from.Sources) == 0:
		return &InvalidTargetError{Op: op, Reason: "query has no from clause"}
	case len(from.Sources) > 1:
		return &InvalidTargetError{Op: op, Reason: "multiple from sources"}
	case len(b.node.Joins) > 0:
		return &InvalidTargetError{Op: op, Reason: "joined queries cannot be mutation targets"}
	}
	t, ok := from.Sources[0].(*ast.TableNode)
	if !ok {
		return &InvalidTargetError{Op: op, Reason: "target is not a plain table"}
	}
	if t.Alias != "" {
		return &InvalidTargetError{Op: op, Reason: "target table must not be aliased"}
	}
	return nil
}

// As wraps the current query as a subquery source tagged with alias, for
// use as a from argument of an enclosing query.
func (b *Builder) As(alias string) Source {
	return subquerySource{builder: b, alias: alias}
}

// resolve implements Source. A builder passed directly as a from source
// lacks the mandatory subquery alias.
func (b *Builder) resolve() (ast.Source, error) {
	if b.err != nil {
		return nil, b.err
	}
	return nil, &MissingAliasError{Source: "subquery"}
}

// Expr is an explicitly classified where operand, built with Column or
// Value. It disambiguates the cases the default classification cannot
// express, such as a string literal bound as a parameter.
type Expr interface {
	operandNode() (ast.Operand, error)
}

type columnExpr string

// Column returns an operand referencing the given column
// ("col" or "table.col").
func Column(ref string) Expr { return columnExpr(ref) }

func (c columnExpr) operandNode() (ast.Operand, error) {
	ref, alias, err := parseColumnRef(string(c))
	if err == nil && alias != "" {
		err = &ColumnReferenceError{Ref: string(c)}
	}
	if err != nil {
		return nil, err
	}
	return ast.ColumnOperand{Ref: ref}, nil
}

type valueExpr struct{ v any }

// Value returns an operand that binds v as a driver parameter.
func Value(v any) Expr { return valueExpr{v: v} }

func (v valueExpr) operandNode() (ast.Operand, error) {
	return ast.ValueOperand{Value: v.v}, nil
}

// operandOf classifies a where operand.
func operandOf(v any) (ast.Operand, error) {
	switch x := v.(type) {
	case Expr:
		return x.operandNode()
	case *RawFragment:
		node, err := x.Node()
		if err != nil {
			return nil, err
		}
		return ast.RawOperand{Raw: node}, nil
	case string:
		ref, alias, err := parseColumnRef(x)
		if err == nil && alias != "" {
			err = &ColumnReferenceError{Ref: x}
		}
		if err != nil {
			return nil, err
		}
		return ast.ColumnOperand{Ref: ref}, nil
	default:
		return ast.ValueOperand{Value: v}, nil
	}
}
