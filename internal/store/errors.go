package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/go-sql-driver/mysql"

	"gmc/internal/core"
)

// MySQL server error numbers the engine distinguishes.
const (
	erDupEntry         = 1062
	erNoSuchTable      = 1146
	erBadTable         = 1051
	erNoReferencedRow  = 1452
	erRowIsReferenced  = 1451
	erBadNull          = 1048
	erCheckConstraint  = 3819
	erDataTooLong      = 1406
	erConCountError    = 1040
	erServerShutdown   = 1053
	erAccessDenied     = 1045
	erDBAccessDenied   = 1044
	erUnknownDatabase  = 1049
	erLockWaitTimeout  = 1205
	erQueryInterrupted = 1317
)

// Classify maps a driver error to the engine's taxonomy. Errors that already
// carry a code, and nil, are returned unchanged.
func Classify(err error) error {
	if err == nil || core.CodeOf(err) != "" {
		return err
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case erDupEntry, erNoReferencedRow, erRowIsReferenced, erBadNull, erCheckConstraint, erDataTooLong:
			return core.Wrap(core.CodeConstraintViolation, err, "constraint violation")
		case erNoSuchTable, erBadTable:
			return core.Wrap(core.CodeNotFound, err, "table not found")
		case erConCountError, erServerShutdown, erAccessDenied, erDBAccessDenied, erUnknownDatabase:
			return core.Wrap(core.CodeStoreUnavailable, err, "store unavailable")
		default:
			return core.Wrap(core.CodeStoreError, err, "store error")
		}
	}

	var netErr net.Error
	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, mysql.ErrInvalidConn),
		errors.Is(err, sql.ErrConnDone),
		errors.As(err, &netErr):
		return core.Wrap(core.CodeStoreUnavailable, err, "store unavailable")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return core.Wrap(core.CodeStoreUnavailable, err, "store call interrupted")
	}
	return core.Wrap(core.CodeStoreError, err, "store error")
}

// IsDuplicateKey reports whether err is a duplicate-key violation.
func IsDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == erDupEntry
}
