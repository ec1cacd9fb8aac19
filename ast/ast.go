// Package ast defines the operation node tree that query builders produce
// and the compiler consumes.
//
// Every node is an immutable value: once a constructor or patch method
// returns a node, none of its fields change. A "mutation" is always the
// construction of a new node that shares all untouched children with the
// original (structural sharing). This is what makes builder derivation
// cheap and makes trees safe to read, extend and compile concurrently
// without synchronization.
package ast

// QueryKind identifies the operation a QueryNode performs.
type QueryKind string

// Supported query kinds.
const (
	KindSelect QueryKind = "select"
	KindInsert QueryKind = "insert"
	KindUpdate QueryKind = "update"
	KindDelete QueryKind = "delete"
)

// QueryNode is the root operation node of a single query.
//
// The zero value is not useful; NewQuery returns an empty select query.
// Fields are exported for the compiler's benefit but must be treated as
// read-only. Derive changed trees through the WithX/AppendX methods.
type QueryNode struct {
	Kind        QueryKind
	From        *FromNode
	Selections  []Selection
	Joins       []*JoinNode
	Wheres      []*WhereNode
	Assignments []Assignment // insert/update column-value pairs, ordered
}

// NewQuery returns an empty select query node.
func NewQuery() *QueryNode {
	return &QueryNode{Kind: KindSelect}
}

// clone returns a shallow copy of n. Child pointers and slice headers are
// shared; callers patch exactly the fields they replace.
func (n *QueryNode) clone() *QueryNode {
	c := *n
	return &c
}

// WithKind returns a copy of n with the query kind replaced.
func (n *QueryNode) WithKind(k QueryKind) *QueryNode {
	c := n.clone()
	c.Kind = k
	return c
}

// WithFrom returns a copy of n with the from clause replaced.
func (n *QueryNode) WithFrom(f *FromNode) *QueryNode {
	c := n.clone()
	c.From = f
	return c
}

// WithSelections returns a copy of n with the selection list replaced.
func (n *QueryNode) WithSelections(ss []Selection) *QueryNode {
	c := n.clone()
	c.Selections = ss
	return c
}

// AppendSelections returns a copy of n with ss appended to the selection
// list. The backing array is never shared with the original, so sibling
// derivations cannot clobber each other.
func (n *QueryNode) AppendSelections(ss ...Selection) *QueryNode {
	c := n.clone()
	c.Selections = appendCopy(n.Selections, ss...)
	return c
}

// AppendJoin returns a copy of n with j appended to the join list.
func (n *QueryNode) AppendJoin(j *JoinNode) *QueryNode {
	c := n.clone()
	c.Joins = appendCopy(n.Joins, j)
	return c
}

// AppendWhere returns a copy of n with w appended to the predicate list.
func (n *QueryNode) AppendWhere(w *WhereNode) *QueryNode {
	c := n.clone()
	c.Wheres = appendCopy(n.Wheres, w)
	return c
}

// WithAssignments returns a copy of n with the assignment list replaced.
func (n *QueryNode) WithAssignments(as []Assignment) *QueryNode {
	c := n.clone()
	c.Assignments = as
	return c
}

// appendCopy appends vs to a fresh copy of s. Plain append would reuse
// s's backing array when capacity allows, letting two derived trees write
// into the same memory.
func appendCopy[T any](s []T, vs ...T) []T {
	c := make([]T, len(s), len(s)+len(vs))
	copy(c, s)
	return append(c, vs...)
}

// Source is a from-capable node: a table reference, a subquery or a raw
// fragment. The set of implementations is closed.
type Source interface {
	// SourceAlias returns the alias the source carries, or "".
	SourceAlias() string
	source()
}

// TableNode is a table reference with an optional alias.
type TableNode struct {
	Name  string
	Alias string
}

func (*TableNode) source() {}

// SourceAlias returns the table alias, or "".
func (t *TableNode) SourceAlias() string { return t.Alias }

// SubqueryNode wraps a complete query as a from source. The alias is
// mandatory when the node appears in a from clause.
type SubqueryNode struct {
	Query *QueryNode
	Alias string
}

func (*SubqueryNode) source() {}

// SourceAlias returns the subquery alias.
func (s *SubqueryNode) SourceAlias() string { return s.Alias }

// RawSourceNode wraps a raw fragment as a from source. The alias is
// mandatory when the node appears in a from clause.
type RawSourceNode struct {
	Raw   *RawNode
	Alias string
}

func (*RawSourceNode) source() {}

// SourceAlias returns the raw source alias.
func (r *RawSourceNode) SourceAlias() string { return r.Alias }

// FromNode holds the ordered from sources of a query. Order is
// semantically significant and preserved verbatim into the compiled
// clause.
type FromNode struct {
	Sources []Source
}

// ColumnRef is a column reference, optionally qualified by a table or
// alias name.
type ColumnRef struct {
	Table string // "" for an unqualified reference
	Name  string
}

// Selection is one entry of a select list.
type Selection interface {
	selection()
}

// ColumnSelection selects a column, optionally renamed by an alias.
type ColumnSelection struct {
	Ref   ColumnRef
	Alias string
}

func (ColumnSelection) selection() {}

// RawSelection selects a raw expression, optionally named by an alias.
type RawSelection struct {
	Raw   *RawNode
	Alias string
}

func (RawSelection) selection() {}

// JoinKind identifies the join flavor of a JoinNode.
type JoinKind string

// Supported join kinds.
const (
	JoinInner JoinKind = "inner"
	JoinLeft  JoinKind = "left"
	JoinRight JoinKind = "right"
	JoinFull  JoinKind = "full"
)

// JoinNode joins a from-capable source on a column equality.
type JoinNode struct {
	Kind   JoinKind
	Target Source
	Left   ColumnRef
	Right  ColumnRef
}

// Operand is one side of a where predicate.
type Operand interface {
	operand()
}

// ColumnOperand references a column.
type ColumnOperand struct {
	Ref ColumnRef
}

func (ColumnOperand) operand() {}

// ValueOperand carries a literal value that becomes a bound parameter.
type ValueOperand struct {
	Value any
}

func (ValueOperand) operand() {}

// RawOperand embeds a raw fragment in expression position.
type RawOperand struct {
	Raw *RawNode
}

func (RawOperand) operand() {}

// WhereNode is a single binary predicate. Multiple predicates on one
// query are conjoined with AND in call order.
type WhereNode struct {
	Left  Operand
	Op    string
	Right Operand
}

// Assignment is one column-value pair of an insert row or update set.
type Assignment struct {
	Column string
	Value  any
}

// RawTokenKind identifies one token of a raw fragment.
type RawTokenKind uint8

// Raw fragment token kinds.
const (
	// TokenText is a literal SQL text segment emitted verbatim.
	TokenText RawTokenKind = iota
	// TokenValue is a value placeholder; its argument is always sent to
	// the driver as a bound parameter, never interpolated.
	TokenValue
	// TokenIdent is an identifier placeholder; its argument is split on
	// "." and each segment is dialect-quoted. It contributes no bound
	// parameter.
	TokenIdent
)

// RawToken is one token of a raw fragment. Text is set only for
// TokenText.
type RawToken struct {
	Kind RawTokenKind
	Text string
}

// RawNode is a parsed raw fragment: an ordered token list plus the
// ordered argument list its placeholders consume. The number of
// placeholder tokens always equals len(Args).
type RawNode struct {
	Tokens []RawToken
	Args   []any
}
