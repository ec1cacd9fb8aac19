package sequel

import (
	"errors"
	"fmt"
)

// ErrMissingFrom is returned when a query that needs a from clause is
// extended or compiled before one was attached.
var ErrMissingFrom = errors.New("sequel: query has no from clause")

// MissingAliasError is returned when a subquery or raw fragment is used
// as a from source without a prior As call.
type MissingAliasError struct {
	// Source describes the offending source kind: "subquery" or "raw".
	Source string
}

// Error returns the error string.
func (e *MissingAliasError) Error() string {
	return fmt.Sprintf("sequel: %s used as a from source requires an alias; call As", e.Source)
}

// IsMissingAlias reports whether err is a MissingAliasError.
func IsMissingAlias(err error) bool {
	var e *MissingAliasError
	return errors.As(err, &e)
}

// DuplicateSourceError is returned at compile time when two from sources
// resolve to the same name: either two unaliased occurrences of one
// table, or two sources sharing an alias.
type DuplicateSourceError struct {
	Name string
}

// Error returns the error string.
func (e *DuplicateSourceError) Error() string {
	return fmt.Sprintf("sequel: duplicate from source %q", e.Name)
}

// IsDuplicateSource reports whether err is a DuplicateSourceError.
func IsDuplicateSource(err error) bool {
	var e *DuplicateSourceError
	return errors.As(err, &e)
}

// ColumnReferenceError is returned when a column-reference string does
// not contain a valid column token.
type ColumnReferenceError struct {
	Ref string
}

// Error returns the error string.
func (e *ColumnReferenceError) Error() string {
	return fmt.Sprintf("sequel: malformed column reference %q", e.Ref)
}

// IsColumnReference reports whether err is a ColumnReferenceError.
func IsColumnReference(err error) bool {
	var e *ColumnReferenceError
	return errors.As(err, &e)
}

// UnsupportedOperatorError is returned when a where predicate uses an
// operator outside the supported whitelist.
type UnsupportedOperatorError struct {
	Op string
}

// Error returns the error string.
func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("sequel: unsupported operator %q", e.Op)
}

// IsUnsupportedOperator reports whether err is an UnsupportedOperatorError.
func IsUnsupportedOperator(err error) bool {
	var e *UnsupportedOperatorError
	return errors.As(err, &e)
}

// InvalidTargetError is returned when insert, update or delete is called
// against anything but a single unaliased table reference.
type InvalidTargetError struct {
	// Op is the mutation that was attempted: "insert", "update" or
	// "delete".
	Op     string
	Reason string
}

// Error returns the error string.
func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("sequel: invalid %s target: %s", e.Op, e.Reason)
}

// IsInvalidTarget reports whether err is an InvalidTargetError.
func IsInvalidTarget(err error) bool {
	var e *InvalidTargetError
	return errors.As(err, &e)
}

// PlaceholderCountMismatchError is returned when a raw template's
// placeholder count differs from the length of its argument list.
type PlaceholderCountMismatchError struct {
	Placeholders int
	Args         int
}

// Error returns the error string.
func (e *PlaceholderCountMismatchError) Error() string {
	return fmt.Sprintf("sequel: raw template has %d placeholders but %d arguments", e.Placeholders, e.Args)
}

// IsPlaceholderCountMismatch reports whether err is a
// PlaceholderCountMismatchError.
func IsPlaceholderCountMismatch(err error) bool {
	var e *PlaceholderCountMismatchError
	return errors.As(err, &e)
}

// InvalidIdentifierError is returned when a table name, alias or
// identifier-placeholder argument is not a syntactically valid
// identifier.
type InvalidIdentifierError struct {
	Ident string
}

// Error returns the error string.
func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("sequel: invalid identifier %q", e.Ident)
}

// IsInvalidIdentifier reports whether err is an InvalidIdentifierError.
func IsInvalidIdentifier(err error) bool {
	var e *InvalidIdentifierError
	return errors.As(err, &e)
}
