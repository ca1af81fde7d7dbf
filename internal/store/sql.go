package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/studentctl/internal/adapter"
)

// SQLStore is the SQL-backed Store. It is dialect-agnostic: statement
// placeholders, DDL and constraint detection come from the adapter.
type SQLStore struct {
	adapter adapter.Adapter
	logger  *slog.Logger
}

// New creates a Store backed by the given adapter.
// If logger is nil, a discard logger is used.
func New(ad adapter.Adapter, logger *slog.Logger) *SQLStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLStore{adapter: ad, logger: logger}
}

// Init creates the students table if it does not exist. Safe to run on
// every startup.
func (s *SQLStore) Init(ctx context.Context) error {
	db, err := s.adapter.Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.ExecContext(ctx, s.adapter.SchemaSQL()); err != nil {
		return fmt.Errorf("failed to create students table: %w", err)
	}

	s.logger.Debug("schema initialized", slog.String("driver", s.adapter.Name()))
	return nil
}

// Create inserts a student and returns the database-generated id.
func (s *SQLStore) Create(ctx context.Context, name, email string) (int64, error) {
	db, err := s.adapter.Open(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to connect: %w", err)
	}
	defer func() { _ = db.Close() }()

	query := fmt.Sprintf("INSERT INTO students (name, email) VALUES (%s, %s) RETURNING id",
		s.adapter.Placeholder(1), s.adapter.Placeholder(2))

	var id int64
	if err := db.QueryRowContext(ctx, query, name, email).Scan(&id); err != nil {
		if s.adapter.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateEmail, email)
		}
		return 0, fmt.Errorf("failed to insert student: %w", err)
	}

	return id, nil
}

// List returns all students ordered by id.
func (s *SQLStore) List(ctx context.Context) ([]Student, error) {
	db, err := s.adapter.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, "SELECT id, name, email, created_at FROM students ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var students []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.Name, &st.Email, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}

	return students, nil
}

// Update changes the non-nil fields of the student with the given id and
// returns the number of rows affected. When both fields are nil it
// returns 0 without opening a connection.
func (s *SQLStore) Update(ctx context.Context, id int64, name, email *string) (int64, error) {
	sets := make([]string, 0, 2)
	args := make([]any, 0, 3)

	if name != nil {
		args = append(args, *name)
		sets = append(sets, fmt.Sprintf("name = %s", s.adapter.Placeholder(len(args))))
	}
	if email != nil {
		args = append(args, *email)
		sets = append(sets, fmt.Sprintf("email = %s", s.adapter.Placeholder(len(args))))
	}
	if len(sets) == 0 {
		return 0, nil
	}

	db, err := s.adapter.Open(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to connect: %w", err)
	}
	defer func() { _ = db.Close() }()

	args = append(args, id)
	query := fmt.Sprintf("UPDATE students SET %s WHERE id = %s",
		strings.Join(sets, ", "), s.adapter.Placeholder(len(args)))

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		if s.adapter.IsUniqueViolation(err) && email != nil {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateEmail, *email)
		}
		return 0, fmt.Errorf("failed to update student: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected, nil
}

// Delete removes the student with the given id and returns the number of
// rows affected.
func (s *SQLStore) Delete(ctx context.Context, id int64) (int64, error) {
	db, err := s.adapter.Open(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to connect: %w", err)
	}
	defer func() { _ = db.Close() }()

	query := fmt.Sprintf("DELETE FROM students WHERE id = %s", s.adapter.Placeholder(1))

	res, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete student: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected, nil
}

// Ensure SQLStore implements the Store interface
var _ Store = (*SQLStore)(nil)
