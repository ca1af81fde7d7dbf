// Package shell implements the interactive menu loop.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/leapstack-labs/studentctl/internal/render"
	"github.com/leapstack-labs/studentctl/internal/store"
)

// errQuit signals a clean exit from the menu loop.
var errQuit = errors.New("quit")

// Shell drives a menu session against a store. Repository failures are
// logged and the loop continues; only quitting or exhausted input ends
// Run. Schema problems are expected to be fatal before Run is reached.
type Shell struct {
	store  store.Store
	in     LineReader
	out    io.Writer
	driver string
	logger *slog.Logger
}

// New creates a shell reading from in and writing operator output to out.
// If logger is nil, a discard logger is used.
func New(st store.Store, in LineReader, out io.Writer, driver string, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Shell{store: st, in: in, out: out, driver: driver, logger: logger}
}

// Run executes the menu loop until the operator quits or input ends.
// A quit, EOF or interrupt-at-menu never yields an error.
func (s *Shell) Run(ctx context.Context) error {
	for {
		s.printMenu()
		choice, err := s.in.ReadLine("> ")
		if err != nil {
			if errors.Is(err, ErrInterrupted) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		err = s.dispatch(ctx, strings.TrimSpace(choice))
		switch {
		case errors.Is(err, errQuit), errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, ErrInterrupted):
			// Operator aborted mid-prompt; back to the menu.
			continue
		case err != nil:
			return err
		}
	}
}

func (s *Shell) printMenu() {
	_, _ = fmt.Fprintf(s.out, "Student CRUD (%s)\n", s.driver)
	_, _ = fmt.Fprintln(s.out, "1) Create  2) List  3) Update  4) Delete  5) Quit")
}

func (s *Shell) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return s.create(ctx)
	case "2":
		return s.list(ctx)
	case "3":
		return s.update(ctx)
	case "4":
		return s.delete(ctx)
	case "5":
		_, _ = fmt.Fprintln(s.out, "Goodbye")
		return errQuit
	default:
		_, _ = fmt.Fprintln(s.out, "Invalid option")
		return nil
	}
}

func (s *Shell) create(ctx context.Context) error {
	name, err := s.prompt("Name: ")
	if err != nil {
		return err
	}
	email, err := s.prompt("Email: ")
	if err != nil {
		return err
	}

	id, err := s.store.Create(ctx, name, email)
	if err != nil {
		s.logger.Error("create failed", slog.Any("error", err))
		return nil
	}
	_, _ = fmt.Fprintf(s.out, "Created student with ID=%d\n", id)
	return nil
}

func (s *Shell) list(ctx context.Context) error {
	students, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("list failed", slog.Any("error", err))
		return nil
	}
	render.Students(s.out, students)
	return nil
}

func (s *Shell) update(ctx context.Context) error {
	id, ok, err := s.promptID()
	if err != nil || !ok {
		return err
	}
	name, err := s.promptOptional("New name (blank to skip): ")
	if err != nil {
		return err
	}
	email, err := s.promptOptional("New email (blank to skip): ")
	if err != nil {
		return err
	}

	affected, err := s.store.Update(ctx, id, name, email)
	if err != nil {
		s.logger.Error("update failed", slog.Any("error", err))
		return nil
	}
	_, _ = fmt.Fprintf(s.out, "Updated %d row(s)\n", affected)
	return nil
}

func (s *Shell) delete(ctx context.Context) error {
	id, ok, err := s.promptID()
	if err != nil || !ok {
		return err
	}

	affected, err := s.store.Delete(ctx, id)
	if err != nil {
		s.logger.Error("delete failed", slog.Any("error", err))
		return nil
	}
	_, _ = fmt.Fprintf(s.out, "Deleted %d row(s)\n", affected)
	return nil
}

// prompt reads one line and trims surrounding whitespace.
func (s *Shell) prompt(label string) (string, error) {
	line, err := s.in.ReadLine(label)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptOptional reads one line; blank input means "leave unchanged" and
// yields nil.
func (s *Shell) promptOptional(label string) (*string, error) {
	line, err := s.prompt(label)
	if err != nil {
		return nil, err
	}
	if line == "" {
		return nil, nil
	}
	return &line, nil
}

// promptID reads and parses a student id. Input that does not parse as
// an integer is reported to the operator and ok is false; the repository
// is never consulted with a malformed id.
func (s *Shell) promptID() (id int64, ok bool, err error) {
	line, err := s.prompt("Student ID: ")
	if err != nil {
		return 0, false, err
	}
	id, perr := strconv.ParseInt(line, 10, 64)
	if perr != nil {
		_, _ = fmt.Fprintln(s.out, "Invalid ID")
		return 0, false, nil
	}
	return id, true, nil
}
