package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

type pgClass struct {
	code  ErrorCode
	retry bool
}

// SQLSTATEs the ingest writes and reward snapshot reads can hit
var pgClasses = map[string]pgClass{
	"23505": {code: ErrorCodeDuplicateKey},    // unique_violation
	"23503": {code: ErrorCodeInvalidArgument}, // foreign_key_violation
	"23502": {code: ErrorCodeValidation},      // not_null_violation
	"23514": {code: ErrorCodeValidation},      // check_violation
	"22001": {code: ErrorCodeInvalidArgument}, // string_data_right_truncation
	"22P02": {code: ErrorCodeInvalidArgument}, // invalid_text_representation

	"40001": {code: ErrorCodeDB, retry: true}, // serialization_failure
	"40P01": {code: ErrorCodeDB, retry: true}, // deadlock_detected
	"55P03": {code: ErrorCodeDB, retry: true}, // lock_not_available

	"57014": {code: ErrorCodeUnavailable}, // query_canceled, statement_timeout lands here
	"25006": {code: ErrorCodeUnavailable}, // read_only_sql_transaction
	"57P01": {code: ErrorCodeUnavailable}, // admin_shutdown
	"57P03": {code: ErrorCodeUnavailable}, // cannot_connect_now
}

// ExtractPgError returns the PgError at the root of err
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(Root(err), &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether err is a postgres error with the given SQLSTATE
func IsSQLState(err error, state string) bool {
	pgErr, ok := ExtractPgError(err)
	return ok && pgErr.Code == state
}

// DBErrorCode maps a postgres error onto an ErrorCode
// ok is false when err carries no PgError; unlisted states are ErrorCodeDB
// connection exceptions (class 08) are Unavailable
func DBErrorCode(err error) (ErrorCode, bool) {
	var pgErr *pgconn.PgError
	if !stderrs.As(err, &pgErr) {
		return ErrorCodeUnknown, false
	}
	if c, ok := pgClasses[pgErr.Code]; ok {
		return c.code, true
	}
	if strings.HasPrefix(pgErr.Code, "08") {
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps a pg error with its mapped code, nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}

// FromPostgresf is FromPostgres with a formatted message
func FromPostgresf(err error, format string, a ...any) error {
	return FromPostgres(err, fmt.Sprintf(format, a...))
}

// text pgx emits when a commit or lock fails without a structured PgError
var retryText = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
	"could not obtain lock on row",
}

// IsRetryable reports whether a database error is contention worth another attempt
// local cancellation and deadlines never are
func IsRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pgErr, ok := ExtractPgError(err); ok {
		return pgClasses[pgErr.Code].retry
	}
	s := strings.ToLower(Root(err).Error())
	for _, t := range retryText {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
