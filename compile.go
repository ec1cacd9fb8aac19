package sequel

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/syssam/sequel/ast"
	"github.com/syssam/sequel/dialect"
)

// compileQuery walks an operation node tree in fixed clause order and
// produces the SQL text plus the ordered bound-parameter list for the
// named dialect. Compilation is pure and synchronous: the same tree
// always yields byte-identical output, and the input tree is never
// mutated.
func compileQuery(n *ast.QueryNode, d string) (string, []any, error) {
	w := &sqlWriter{dialect: d, quoter: dialect.For(d)}
	if err := w.query(n); err != nil {
		return "", nil, err
	}
	return w.sb.String(), w.args, nil
}

// sqlWriter accumulates SQL text and bound parameters during a single
// compilation. The placeholder ordinal is shared across subqueries so
// postgres $n numbering stays globally ordered.
type sqlWriter struct {
	dialect string
	quoter  dialect.Quoter
	sb      strings.Builder
	args    []any
	ordinal int
}

func (w *sqlWriter) write(s string)  { w.sb.WriteString(s) }
func (w *sqlWriter) ident(s string)  { w.write(w.quoter.Ident(s)) }
func (w *sqlWriter) qident(s string) { w.write(w.quoter.QualifiedIdent(s)) }

// bind emits the next placeholder and records v as its parameter.
func (w *sqlWriter) bind(v any) {
	w.ordinal++
	w.write(dialect.Placeholder(w.dialect, w.ordinal))
	w.args = append(w.args, v)
}

func (w *sqlWriter) query(n *ast.QueryNode) error {
	if n.From == nil || len(n.From.Sources) == 0 {
		return ErrMissingFrom
	}
	if err := checkDuplicateSources(n); err != nil {
		return err
	}
	switch n.Kind {
	case ast.KindSelect:
		return w.selectQuery(n)
	case ast.KindInsert:
		return w.insertQuery(n)
	case ast.KindUpdate:
		return w.updateQuery(n)
	case ast.KindDelete:
		return w.deleteQuery(n)
	default:
		return fmt.Errorf("sequel: unknown query kind %q", n.Kind)
	}
}

// checkDuplicateSources validates that every from source and join target
// is addressable by a unique name. Aliases and unaliased table names
// share one namespace.
func checkDuplicateSources(n *ast.QueryNode) error {
	seen := make(map[string]struct{})
	use := func(s ast.Source) error {
		name := s.SourceAlias()
		if name == "" {
			t, ok := s.(*ast.TableNode)
			if !ok {
				// Unreachable through the builder; subquery and raw
				// sources always carry an alias.
				return &MissingAliasError{Source: "subquery"}
			}
			name = t.Name
		}
		if _, dup := seen[name]; dup {
			return &DuplicateSourceError{Name: name}
		}
		seen[name] = struct{}{}
		return nil
	}
	for _, s := range n.From.Sources {
		if err := use(s); err != nil {
			return err
		}
	}
	for _, j := range n.Joins {
		if err := use(j.Target); err != nil {
			return err
		}
	}
	return nil
}

func (w *sqlWriter) selectQuery(n *ast.QueryNode) error {
	w.write("select ")
	if len(n.Selections) == 0 {
		w.write("*")
	}
	for i, s := range n.Selections {
		if i > 0 {
			w.write(", ")
		}
		if err := w.selection(s); err != nil {
			return err
		}
	}
	w.write(" from ")
	for i, s := range n.From.Sources {
		if i > 0 {
			w.write(", ")
		}
		if err := w.source(s); err != nil {
			return err
		}
	}
	for _, j := range n.Joins {
		w.write(" ")
		w.write(string(j.Kind))
		w.write(" join ")
		if err := w.source(j.Target); err != nil {
			return err
		}
		w.write(" on ")
		w.columnRef(j.Left)
		w.write(" = ")
		w.columnRef(j.Right)
	}
	return w.whereClause(n.Wheres)
}

func (w *sqlWriter) insertQuery(n *ast.QueryNode) error {
	t, err := mutationTable(n, "insert")
	if err != nil {
		return err
	}
	w.write("insert into ")
	w.qident(t.Name)
	if len(n.Assignments) == 0 {
		w.write(" default values")
		return nil
	}
	w.write(" (")
	for i, a := range n.Assignments {
		if i > 0 {
			w.write(", ")
		}
		w.ident(a.Column)
	}
	w.write(") values (")
	for i, a := range n.Assignments {
		if i > 0 {
			w.write(", ")
		}
		w.bind(a.Value)
	}
	w.write(")")
	return nil
}

func (w *sqlWriter) updateQuery(n *ast.QueryNode) error {
	t, err := mutationTable(n, "update")
	if err != nil {
		return err
	}
	if len(n.Assignments) == 0 {
		return fmt.Errorf("sequel: update requires at least one assignment")
	}
	w.write("update ")
	w.qident(t.Name)
	w.write(" set ")
	for i, a := range n.Assignments {
		if i > 0 {
			w.write(", ")
		}
		w.ident(a.Column)
		w.write(" = ")
		w.bind(a.Value)
	}
	return w.whereClause(n.Wheres)
}

func (w *sqlWriter) deleteQuery(n *ast.QueryNode) error {
	t, err := mutationTable(n, "delete")
	if err != nil {
		return err
	}
	w.write("delete from ")
	w.qident(t.Name)
	return w.whereClause(n.Wheres)
}

// mutationTable re-validates the mutation target shape. The builder
// checks this eagerly, but a tree may also be assembled by hand.
func mutationTable(n *ast.QueryNode, op string) (*ast.TableNode, error) {
	if len(n.From.Sources) != 1 || len(n.Joins) > 0 {
		return nil, &InvalidTargetError{Op: op, Reason: "target must be a single table"}
	}
	t, ok := n.From.Sources[0].(*ast.TableNode)
	if !ok {
		return nil, &InvalidTargetError{Op: op, Reason: "target is not a plain table"}
	}
	if t.Alias != "" {
		return nil, &InvalidTargetError{Op: op, Reason: "target table must not be aliased"}
	}
	return t, nil
}

func (w *sqlWriter) selection(s ast.Selection) error {
	switch x := s.(type) {
	case ast.ColumnSelection:
		w.columnRef(x.Ref)
		if x.Alias != "" {
			w.write(" as ")
			w.ident(x.Alias)
		}
		return nil
	case ast.RawSelection:
		if err := w.raw(x.Raw); err != nil {
			return err
		}
		if x.Alias != "" {
			w.write(" as ")
			w.ident(x.Alias)
		}
		return nil
	default:
		return fmt.Errorf("sequel: unknown selection type %T", s)
	}
}

func (w *sqlWriter) source(s ast.Source) error {
	switch x := s.(type) {
	case *ast.TableNode:
		w.qident(x.Name)
		if x.Alias != "" {
			w.write(" as ")
			w.ident(x.Alias)
		}
		return nil
	case *ast.SubqueryNode:
		w.write("(")
		if err := w.query(x.Query); err != nil {
			return err
		}
		w.write(") as ")
		w.ident(x.Alias)
		return nil
	case *ast.RawSourceNode:
		if err := w.raw(x.Raw); err != nil {
			return err
		}
		w.write(" as ")
		w.ident(x.Alias)
		return nil
	default:
		return fmt.Errorf("sequel: unknown source type %T", s)
	}
}

func (w *sqlWriter) columnRef(c ast.ColumnRef) {
	if c.Table != "" {
		w.ident(c.Table)
		w.write(".")
	}
	w.ident(c.Name)
}

func (w *sqlWriter) whereClause(ws []*ast.WhereNode) error {
	for i, p := range ws {
		if i == 0 {
			w.write(" where ")
		} else {
			w.write(" and ")
		}
		if err := w.operand(p.Left); err != nil {
			return err
		}
		w.write(" ")
		w.write(p.Op)
		w.write(" ")
		if err := w.predicateRHS(p); err != nil {
			return err
		}
	}
	return nil
}

// predicateRHS emits the right-hand side of a predicate, applying the
// operator-specific value forms: in/not in expands collections into a
// placeholder list, is/is not renders a nil value as literal null.
func (w *sqlWriter) predicateRHS(p *ast.WhereNode) error {
	v, isValue := p.Right.(ast.ValueOperand)
	switch p.Op {
	case "in", "not in":
		if isValue {
			w.valueList(v.Value)
			return nil
		}
	case "is", "is not":
		if isValue && v.Value == nil {
			w.write("null")
			return nil
		}
	}
	return w.operand(p.Right)
}

// valueList expands a slice or array value into a parenthesized
// placeholder list; a scalar binds as a single-element list. An empty
// collection emits (null), which matches no row without being a syntax
// error.
func (w *sqlWriter) valueList(v any) {
	rv := reflect.ValueOf(v)
	if v == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		w.write("(")
		w.bind(v)
		w.write(")")
		return
	}
	if rv.Len() == 0 {
		w.write("(null)")
		return
	}
	w.write("(")
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			w.write(", ")
		}
		w.bind(rv.Index(i).Interface())
	}
	w.write(")")
}

func (w *sqlWriter) operand(o ast.Operand) error {
	switch x := o.(type) {
	case ast.ColumnOperand:
		w.columnRef(x.Ref)
		return nil
	case ast.ValueOperand:
		w.bind(x.Value)
		return nil
	case ast.RawOperand:
		return w.raw(x.Raw)
	default:
		return fmt.Errorf("sequel: unknown operand type %T", o)
	}
}

// raw emits a raw fragment: literal text verbatim, value placeholders as
// driver parameters, identifier placeholders as dialect-quoted names.
// Placeholder arguments are consumed in token order.
func (w *sqlWriter) raw(r *ast.RawNode) error {
	next := 0
	for _, tok := range r.Tokens {
		switch tok.Kind {
		case ast.TokenText:
			w.write(tok.Text)
		case ast.TokenValue:
			if next >= len(r.Args) {
				return &PlaceholderCountMismatchError{Placeholders: next + 1, Args: len(r.Args)}
			}
			w.bind(r.Args[next])
			next++
		case ast.TokenIdent:
			if next >= len(r.Args) {
				return &PlaceholderCountMismatchError{Placeholders: next + 1, Args: len(r.Args)}
			}
			name, ok := r.Args[next].(string)
			if !ok {
				return &InvalidIdentifierError{Ident: fmt.Sprint(r.Args[next])}
			}
			w.qident(name)
			next++
		default:
			return fmt.Errorf("sequel: unknown raw token kind %d", tok.Kind)
		}
	}
	return nil
}
