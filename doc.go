// Package sequel provides immutable SQL query construction primitives.
//
// Callers assemble a query by chaining builder operations and obtain, at
// the end, an operation node tree that compiles into parameterized SQL
// text plus an ordered list of bound values.
//
// # Immutability
//
// Every builder method returns a new builder; the receiver is never
// mutated. Derived builders share untouched subtrees with their parents
// (structural sharing), so deriving is O(1) in the size of the tree and
// any number of builder lineages may be read, extended or compiled
// concurrently without synchronization:
//
//	base := sequel.Query(sequel.Table("person"))
//	adults := base.Where("person.age", ">=", 18)
//	named := base.Where("person.name", "like", sequel.Value("A%"))
//	// base is still valid and unchanged.
//
// # Building and compiling
//
//	q := sequel.Query(sequel.Table("person"), sequel.Table("pet")).
//		Select("person.id", "pet.name as pet_name")
//	query, args, err := q.Compile(dialect.Postgres)
//	// select "person"."id", "pet"."name" as "pet_name" from "person", "pet"
//
// The compiled pair is what an execution layer consumes; Open/OpenDB
// provide a thin database/sql adapter:
//
//	drv, err := sequel.Open(dialect.SQLite, ":memory:")
//	...
//	err = drv.Exec(ctx, query, args, nil)
//
// # Raw fragments
//
// Raw injects literal SQL safely. ? binds the next argument as a driver
// parameter, ?? renders it as a dialect-quoted identifier:
//
//	sequel.Raw("coalesce(??, ?)", "person.nickname", "n/a")
//
// Value placeholders are never interpolated into the SQL text; they are
// the sole injection-safety mechanism and cannot be bypassed.
//
// # Subqueries
//
// A builder becomes a from source by tagging it with an alias:
//
//	inner := sequel.Query(sequel.Table("pet")).Select("pet.owner_id")
//	outer := sequel.Query(inner.As("owners"))
//
// Passing a builder without As fails with MissingAliasError.
//
// # Mutations
//
// Insert, Update and Delete switch the query kind and are valid only
// against a single unaliased table:
//
//	sequel.Query(sequel.Table("person")).
//		Insert(map[string]any{"first_name": "Ada"})
//
// # Errors
//
// All errors are deterministic structural validation failures,
// discoverable from argument shapes and tree state alone. Errors
// detected during a fluent call stick to the derived builder and
// surface at Node or Compile.
package sequel
