package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAdapter hands the store a sqlmock database with postgres-style
// placeholders, for asserting the exact SQL each operation issues.
type mockAdapter struct {
	db      *sql.DB
	openErr error
}

func (m *mockAdapter) Name() string { return "mock" }

func (m *mockAdapter) Open(context.Context) (*sql.DB, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m.db, nil
}

func (m *mockAdapter) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (m *mockAdapter) SchemaSQL() string {
	return "CREATE TABLE IF NOT EXISTS students (id SERIAL PRIMARY KEY)"
}

func (m *mockAdapter) IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// newMockStore pairs a store with a sqlmock expectation handle.
func newMockStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(&mockAdapter{db: db}, nil), mock
}

func TestSQLStore_Init_SQL(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS students")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectClose()

	require.NoError(t, st.Init(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_Init_Error(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS students")).
		WillReturnError(assert.AnError)
	mock.ExpectClose()

	err := st.Init(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create students table")
}

func TestSQLStore_Create_SQL(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO students (name, email) VALUES ($1, $2) RETURNING id")).
		WithArgs("Ana", "ana@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectClose()

	id, err := st.Create(context.Background(), "Ana", "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_Create_UniqueViolation(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO students")).
		WithArgs("Ana", "ana@x.com").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "students_email_key"})
	mock.ExpectClose()

	_, err := st.Create(context.Background(), "Ana", "ana@x.com")
	require.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Contains(t, err.Error(), "ana@x.com")
}

func TestSQLStore_Create_ConnectFailure(t *testing.T) {
	st := New(&mockAdapter{openErr: assert.AnError}, nil)

	_, err := st.Create(context.Background(), "Ana", "ana@x.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect")
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
}

func TestSQLStore_List_SQL(t *testing.T) {
	st, mock := newMockStore(t)

	created := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, created_at FROM students ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "created_at"}).
			AddRow(int64(1), "Ana", "ana@x.com", created).
			AddRow(int64(2), "Bo", "bo@x.com", created))
	mock.ExpectClose()

	students, err := st.List(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, Student{ID: 1, Name: "Ana", Email: "ana@x.com", CreatedAt: created}, students[0])
	assert.Equal(t, int64(2), students[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_List_QueryError(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, name, email, created_at").
		WillReturnError(assert.AnError)
	mock.ExpectClose()

	_, err := st.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query students")
}

func TestSQLStore_Update_SQL(t *testing.T) {
	tests := []struct {
		name      string
		newName   *string
		newEmail  *string
		expectSQL string
		args      []driver.Value
	}{
		{
			name:      "name only",
			newName:   strPtr("Bob"),
			expectSQL: "UPDATE students SET name = $1 WHERE id = $2",
			args:      []driver.Value{"Bob", int64(3)},
		},
		{
			name:      "email only",
			newEmail:  strPtr("bob@x.com"),
			expectSQL: "UPDATE students SET email = $1 WHERE id = $2",
			args:      []driver.Value{"bob@x.com", int64(3)},
		},
		{
			name:      "both fields",
			newName:   strPtr("Bob"),
			newEmail:  strPtr("bob@x.com"),
			expectSQL: "UPDATE students SET name = $1, email = $2 WHERE id = $3",
			args:      []driver.Value{"Bob", "bob@x.com", int64(3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, mock := newMockStore(t)

			mock.ExpectExec(regexp.QuoteMeta(tt.expectSQL)).
				WithArgs(tt.args...).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectClose()

			affected, err := st.Update(context.Background(), 3, tt.newName, tt.newEmail)
			require.NoError(t, err)
			assert.Equal(t, int64(1), affected)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLStore_Update_NoFieldsNoConnection(t *testing.T) {
	// The failing opener proves Update never touches the database when
	// both fields are nil.
	st := New(&mockAdapter{openErr: assert.AnError}, nil)

	affected, err := st.Update(context.Background(), 3, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestSQLStore_Update_MissingID(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET name = $1 WHERE id = $2")).
		WithArgs("Nobody", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectClose()

	affected, err := st.Update(context.Background(), 99, strPtr("Nobody"), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestSQLStore_Update_UniqueViolation(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET email = $1 WHERE id = $2")).
		WithArgs("ana@x.com", int64(2)).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectClose()

	_, err := st.Update(context.Background(), 2, nil, strPtr("ana@x.com"))
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestSQLStore_Delete_SQL(t *testing.T) {
	tests := []struct {
		name         string
		rowsAffected int64
	}{
		{"existing row", 1},
		{"missing row", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, mock := newMockStore(t)

			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE id = $1")).
				WithArgs(int64(5)).
				WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))
			mock.ExpectClose()

			affected, err := st.Delete(context.Background(), 5)
			require.NoError(t, err)
			assert.Equal(t, tt.rowsAffected, affected)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLStore_Delete_ExecError(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnError(assert.AnError)
	mock.ExpectClose()

	_, err := st.Delete(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete student")
}
