package sequel

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sequel/dialect"
)

func TestOpenDB(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dialect string
	}{
		{"Postgres", dialect.Postgres},
		{"MySQL", dialect.MySQL},
		{"SQLite", dialect.SQLite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			drv := OpenDB(tt.dialect, db)
			assert.NotNil(t, drv)
			assert.Equal(t, tt.dialect, drv.Dialect())
		})
	}
}

// TestDialectPrefix verifies versioned driver names resolve to their
// base dialect.
func TestDialectPrefix(t *testing.T) {
	t.Parallel()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB("sqlite3", db)
	assert.Equal(t, dialect.SQLite, drv.Dialect())
}

func TestDriverExec(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	drv := OpenDB(dialect.SQLite, db)

	query, args, err := Query(Table("person")).
		Insert(map[string]any{"first_name": "Ada"}).
		Compile(drv.Dialect())
	require.NoError(t, err)

	mock.ExpectExec(`insert into "person"`).
		WithArgs("Ada").
		WillReturnResult(sqlmock.NewResult(1, 1))

	var res Result
	require.NoError(t, drv.Exec(context.Background(), query, args, &res))
	affected, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDriverExecInvalidArgs(t *testing.T) {
	t.Parallel()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	drv := OpenDB(dialect.SQLite, db)

	assert.Error(t, drv.Exec(context.Background(), "select 1", "not-a-slice", nil))
	assert.Error(t, drv.Exec(context.Background(), "select 1", []any{}, "bad-dest"))
}

func TestDriverQuery(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	drv := OpenDB(dialect.SQLite, db)

	query, args, err := Query(Table("person")).
		Select("person.id", "person.first_name").
		Where("person.id", "=", 1).
		Compile(drv.Dialect())
	require.NoError(t, err)

	mock.ExpectQuery(`select "person"."id"`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name"}).AddRow(1, "Ada"))

	var rows Rows
	require.NoError(t, drv.Query(context.Background(), query, args, &rows))
	defer rows.Close()

	require.True(t, rows.Next())
	var (
		id   int
		name string
	)
	require.NoError(t, rows.Scan(&id, &name))
	assert.Equal(t, 1, id)
	assert.Equal(t, "Ada", name)
	assert.False(t, rows.Next())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDriverQueryInvalidDest(t *testing.T) {
	t.Parallel()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	drv := OpenDB(dialect.SQLite, db)

	assert.Error(t, drv.Query(context.Background(), "select 1", []any{}, nil))
	assert.Error(t, drv.Query(context.Background(), "select 1", "not-a-slice", &Rows{}))
}

func TestDriverTx(t *testing.T) {
	t.Parallel()

	t.Run("Commit", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		drv := OpenDB(dialect.SQLite, db)

		mock.ExpectBegin()
		mock.ExpectExec(`delete from "person"`).
			WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := drv.Tx(context.Background())
		require.NoError(t, err)

		query, args, err := Query(Table("person")).
			Where("person.id", "=", 1).
			Delete().
			Compile(drv.Dialect())
		require.NoError(t, err)

		require.NoError(t, tx.Exec(context.Background(), query, args, nil))
		require.NoError(t, tx.Commit())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rollback", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		drv := OpenDB(dialect.SQLite, db)

		mock.ExpectBegin()
		mock.ExpectRollback()

		tx, err := drv.Tx(context.Background())
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
