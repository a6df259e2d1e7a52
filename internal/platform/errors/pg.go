package errors

import (
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE classes and codes that drive classification
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgStringTooLong       = "22001"
	pgBadTextValue        = "22P02"

	pgSerializationFailure = "40001"
	pgDeadlock             = "40P01"
	pgLockNotAvailable     = "55P03"
	pgReadOnly             = "25006"
	pgCannotConnectNow     = "57P03"
)

var pgCodes = map[string]ErrorCode{
	pgUniqueViolation:      ErrorCodeDuplicateKey,
	pgForeignKeyViolation:  ErrorCodeInvalidArgument,
	pgNotNullViolation:     ErrorCodeValidation,
	pgCheckViolation:       ErrorCodeValidation,
	pgStringTooLong:        ErrorCodeInvalidArgument,
	pgBadTextValue:         ErrorCodeInvalidArgument,
	pgSerializationFailure: ErrorCodeDB,
	pgDeadlock:             ErrorCodeDB,
	pgLockNotAvailable:     ErrorCodeDB,
	pgReadOnly:             ErrorCodeUnavailable,
	pgCannotConnectNow:     ErrorCodeUnavailable,
}

// pgRetryText covers driver errors that arrive without a SQLSTATE, commit aborts mostly
var pgRetryText = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
	"canceling statement due to lock timeout",
	"terminating connection due to administrator command",
}

// PgError returns the *pgconn.PgError at the root of err
func PgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	ok := stderrs.As(Root(err), &pe)
	return pe, ok
}

// DBErrorCode maps a Postgres error to an ErrorCode; ok is false for non pg errors
func DBErrorCode(err error) (ErrorCode, bool) {
	var pe *pgconn.PgError
	if !stderrs.As(err, &pe) {
		var ce *pgconn.ConnectError
		if stderrs.As(err, &ce) {
			return ErrorCodeUnavailable, true
		}
		return ErrorCodeUnknown, false
	}
	if c, ok := pgCodes[pe.Code]; ok {
		return c, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps err with its mapped code. The offending column, when
// the server names one, becomes the error field
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	out := Wrap(err, code, msg)
	if pe, ok := PgError(err); ok && strings.TrimSpace(pe.ColumnName) != "" {
		out = WithField(out, pe.ColumnName)
	}
	return out
}

// IsRetryable reports whether a database error is transient contention
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if pe, ok := PgError(err); ok {
		switch pe.Code {
		case pgSerializationFailure, pgDeadlock, pgLockNotAvailable:
			return true
		}
		return false
	}
	s := strings.ToLower(Root(err).Error())
	for _, t := range pgRetryText {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
