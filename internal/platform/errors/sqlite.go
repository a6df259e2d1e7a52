package errors

// SQLite helpers. The driver reports extended result codes through a Code() int method

import (
	"database/sql"
	stderrs "errors"
)

// Result codes from sqlite3.h that we classify
const (
	sqliteBusy             = 5
	sqliteLocked           = 6
	sqliteConstraint       = 19
	sqliteConstraintPK     = 1555
	sqliteConstraintUnique = 2067
	sqliteConstraintNN     = 1299
	sqliteConstraintCheck  = 275
)

type sqliteCoder interface{ Code() int }

// SQLiteCode returns the extended result code of a sqlite driver error
func SQLiteCode(err error) (int, bool) {
	var c sqliteCoder
	if stderrs.As(err, &c) {
		return c.Code(), true
	}
	return 0, false
}

// IsSQLiteBusy reports whether err is a busy or locked database
func IsSQLiteBusy(err error) bool {
	c, ok := SQLiteCode(err)
	if !ok {
		return false
	}
	switch c & 0xff {
	case sqliteBusy, sqliteLocked:
		return true
	}
	return false
}

// FromSQLite wraps a sqlite error with a mapped ErrorCode. sql.ErrNoRows maps to not found
func FromSQLite(err error, msg string) error {
	if err == nil {
		return nil
	}
	if stderrs.Is(err, sql.ErrNoRows) {
		return Wrap(err, ErrorCodeNotFound, msg)
	}
	c, ok := SQLiteCode(err)
	if !ok {
		return Wrap(err, ErrorCodeDB, msg)
	}
	switch c {
	case sqliteConstraintPK, sqliteConstraintUnique:
		return Wrap(err, ErrorCodeDuplicateKey, msg)
	case sqliteConstraintNN, sqliteConstraintCheck:
		return Wrap(err, ErrorCodeValidation, msg)
	}
	switch c & 0xff {
	case sqliteBusy, sqliteLocked:
		return Wrap(err, ErrorCodeUnavailable, msg)
	case sqliteConstraint:
		return Wrap(err, ErrorCodeInvalidArgument, msg)
	}
	return Wrap(err, ErrorCodeDB, msg)
}
