package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// Request error codes.
const (
	CodeUniqueConstraint     = "P2002"
	CodeForeignKeyConstraint = "P2003"
	CodeNullConstraint       = "P2011"
	CodeRecordNotFound       = "P2025"
	CodePoolTimeout          = "P2024"
	CodeTransaction          = "P2028"
)

// Initialization error codes.
const (
	CodeInvalidDatasource = "P1013"
	CodeUnreachable       = "P1001"
	CodeInvalidOptions    = "P1012"
)

// KnownRequestError is a database error the client recognised and classified.
type KnownRequestError struct {
	Code      string
	Message   string
	Meta      map[string]any
	Model     string
	Operation string
	err       error
}

func (e *KnownRequestError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("store: %s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("store: %s.%s: %s (%s)", e.Model, e.Operation, e.Message, e.Code)
}

func (e *KnownRequestError) Unwrap() error { return e.err }

// UnknownRequestError wraps a database error without a known classification.
type UnknownRequestError struct {
	Model     string
	Operation string
	err       error
}

func (e *UnknownRequestError) Error() string {
	if e.Model == "" {
		return "store: " + e.err.Error()
	}
	return fmt.Sprintf("store: %s.%s: %v", e.Model, e.Operation, e.err)
}

func (e *UnknownRequestError) Unwrap() error { return e.err }

// PanicError reports a panic recovered while executing a query. The client
// that produced it refuses further work.
type PanicError struct {
	Message   string
	Model     string
	Operation string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("store: panic in %s.%s: %s", e.Model, e.Operation, e.Message)
}

// InitializationError is returned when the client cannot be set up or reach
// its database.
type InitializationError struct {
	ErrorCode string
	Message   string
	err       error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("store: %s (%s)", e.Message, e.ErrorCode)
}

func (e *InitializationError) Unwrap() error { return e.err }

// ValidationError reports invalid arguments detected before a query runs.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return "store: " + e.Message }

// IsNotFound reports whether err is a record-not-found error.
func IsNotFound(err error) bool { return hasCode(err, CodeRecordNotFound) }

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool { return hasCode(err, CodeUniqueConstraint) }

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool { return hasCode(err, CodeForeignKeyConstraint) }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func hasCode(err error, code string) bool {
	var e *KnownRequestError
	return errors.As(err, &e) && e.Code == code
}

func notFound(model, message string) *KnownRequestError {
	return &KnownRequestError{
		Code:    CodeRecordNotFound,
		Message: message,
		Meta:    map[string]any{"modelName": model},
	}
}

// Postgres SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
)

// MySQL error numbers.
const (
	mysqlDuplicateEntry   = 1062
	mysqlForeignKeyParent = 1451
	mysqlForeignKeyChild  = 1452
	mysqlBadNull          = 1048
)

// classify maps a driver error onto a KnownRequestError, or returns nil.
func classify(err error) *KnownRequestError {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return uniqueViolation(err, pgKeyColumns(pqErr.Detail, pqErr.Constraint))
		case pgForeignKeyViolation:
			return foreignKeyViolation(err, pqErr.Constraint)
		case pgNotNullViolation:
			return nullViolation(err, pqErr.Column)
		}
		return nil
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return uniqueViolation(err, []string{between(myErr.Message, "for key '", "'")})
		case mysqlForeignKeyParent, mysqlForeignKeyChild:
			return foreignKeyViolation(err, between(myErr.Message, "CONSTRAINT `", "`"))
		case mysqlBadNull:
			return nullViolation(err, between(myErr.Message, "Column '", "'"))
		}
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed: "):
		return uniqueViolation(err, sqliteColumns(msg, "UNIQUE constraint failed: "))
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return foreignKeyViolation(err, "")
	case strings.Contains(msg, "NOT NULL constraint failed: "):
		cols := sqliteColumns(msg, "NOT NULL constraint failed: ")
		return nullViolation(err, strings.Join(cols, ", "))
	}
	return nil
}

func uniqueViolation(err error, target []string) *KnownRequestError {
	quoted := make([]string, len(target))
	for i, t := range target {
		quoted[i] = "`" + t + "`"
	}
	return &KnownRequestError{
		Code:    CodeUniqueConstraint,
		Message: fmt.Sprintf("Unique constraint failed on the fields: (%s)", strings.Join(quoted, ",")),
		Meta:    map[string]any{"target": target},
		err:     err,
	}
}

func foreignKeyViolation(err error, field string) *KnownRequestError {
	if field == "" {
		field = "foreign key"
	}
	return &KnownRequestError{
		Code:    CodeForeignKeyConstraint,
		Message: fmt.Sprintf("Foreign key constraint violated: `%s`", field),
		Meta:    map[string]any{"field_name": field},
		err:     err,
	}
}

func nullViolation(err error, column string) *KnownRequestError {
	return &KnownRequestError{
		Code:    CodeNullConstraint,
		Message: fmt.Sprintf("Null constraint violation on the fields: (`%s`)", column),
		Meta:    map[string]any{"constraint": []string{column}},
		err:     err,
	}
}

// sqliteColumns parses "UNIQUE constraint failed: T.a, T.b" into [a b].
func sqliteColumns(msg, prefix string) []string {
	rest := msg[strings.Index(msg, prefix)+len(prefix):]
	var cols []string
	for _, part := range strings.Split(rest, ",") {
		part = strings.TrimSpace(part)
		if i := strings.LastIndexByte(part, '.'); i >= 0 {
			part = part[i+1:]
		}
		if part != "" {
			cols = append(cols, part)
		}
	}
	return cols
}

// pgKeyColumns parses the detail "Key (a, b)=(x, y) already exists.".
func pgKeyColumns(detail, constraint string) []string {
	if cols := between(detail, "Key (", ")="); cols != "" {
		out := strings.Split(cols, ",")
		for i := range out {
			out[i] = strings.Trim(strings.TrimSpace(out[i]), `"`)
		}
		return out
	}
	return []string{constraint}
}

func between(s, start, end string) string {
	i := strings.Index(s, start)
	if i < 0 {
		return ""
	}
	s = s[i+len(start):]
	if j := strings.Index(s, end); j >= 0 {
		return s[:j]
	}
	return s
}

// translate turns any error returned by gorm or a driver into one of the
// error types above.
func (c *Client) translate(model, op string, err error) error {
	var (
		known   *KnownRequestError
		unknown *UnknownRequestError
		valid   *ValidationError
		initErr *InitializationError
		panicE  *PanicError
	)
	switch {
	case errors.As(err, &known):
		if known.Model == "" {
			known.Model, known.Operation = model, op
		}
		return known
	case errors.As(err, &valid), errors.As(err, &initErr), errors.As(err, &panicE), errors.As(err, &unknown):
		return err
	}
	if c.tx != nil && c.tx.expired.Load() {
		return c.tx.expiredError(err)
	}
	if errors.Is(err, sql.ErrTxDone) {
		return &KnownRequestError{
			Code:      CodeTransaction,
			Message:   "Transaction API error: Transaction already closed",
			Model:     model,
			Operation: op,
			err:       err,
		}
	}
	if k := classify(err); k != nil {
		k.Model, k.Operation = model, op
		return k
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return &UnknownRequestError{Model: model, Operation: op, err: err}
}
