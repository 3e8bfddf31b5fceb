package db

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	// ErrConflict is returned when a write violates a uniqueness or foreign key constraint.
	ErrConflict = errors.New("conflict")
	// ErrInvalidData is returned when a write violates a not-null or check constraint.
	ErrInvalidData = errors.New("invalid_data")
	// ErrInternal hides any other backend failure.
	ErrInternal = errors.New("internal_error")
)

// Error carries the translated class of a failed commit together with the
// driver error. Only Class is ever exposed to clients.
type Error struct {
	Class  error
	Action string
	Cause  error
}

func (e *Error) Error() string {
	return e.Class.Error() + " while " + e.Action + ": " + e.Cause.Error()
}

func (e *Error) Is(target error) bool { return target == e.Class }

func (e *Error) Unwrap() error { return e.Cause }

type violation int

const (
	violationNone violation = iota
	violationUnique
	violationForeignKey
	violationNotNull
	violationCheck
)

// Translate maps a storage error onto ErrConflict, ErrInvalidData or ErrInternal.
// gorm.ErrRecordNotFound is returned untouched.
func Translate(action string, err error) error {
	if err == nil {
		return nil
	}
	var translated *Error
	if errors.As(err, &translated) || errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	class := ErrInternal
	switch classify(err) {
	case violationUnique, violationForeignKey:
		class = ErrConflict
	case violationNotNull, violationCheck:
		class = ErrInvalidData
	}
	return &Error{Class: class, Action: action, Cause: err}
}

func IsDuplicateKeyErr(err error) bool {
	return classify(err) == violationUnique
}

func classify(err error) violation {
	if err == nil {
		return violationNone
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return violationUnique
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return violationForeignKey
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return violationCheck
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifySQLState(pgErr.Code)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return classifySQLState(string(pqErr.Code))
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1062:
			return violationUnique
		case 1216, 1217, 1451, 1452:
			return violationForeignKey
		case 1048, 1364:
			return violationNotNull
		case 3819:
			return violationCheck
		}
		return violationNone
	}

	// SQLite drivers only expose the message.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "duplicate key value violates unique constraint"):
		return violationUnique
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return violationForeignKey
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return violationNotNull
	case strings.Contains(msg, "CHECK constraint failed"):
		return violationCheck
	}
	return violationNone
}

func classifySQLState(code string) violation {
	switch code {
	case "23505":
		return violationUnique
	case "23503":
		return violationForeignKey
	case "23502":
		return violationNotNull
	case "23514":
		return violationCheck
	}
	return violationNone
}
