package repository

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ncruces/go-sqlite3"
	"gorm.io/gorm"
)

var (
	ErrUniqueViolation     = errors.New("unique constraint violated")
	ErrForeignKeyViolation = errors.New("foreign key constraint violated")
)

// SQLSTATE codes of the integrity_constraint_violation class.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// MySQL server error numbers.
const (
	mysqlDupEntry         = 1062
	mysqlRowIsReferenced  = 1451
	mysqlNoReferencedRow  = 1452
	mysqlRowIsReferenced2 = 1217
	mysqlNoReferencedRow2 = 1216
)

// TranslateError maps a storage integrity failure to ErrUniqueViolation or
// ErrForeignKeyViolation, both wrapping the driver error. Any error it cannot
// classify is returned as is.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	kind, coded := classifyByCode(err)
	if !coded {
		kind = classifyByText(err)
	}
	if kind == nil {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// classifyByCode reports coded=true when the driver attached a structured
// error code, in which case the code alone decides.
func classifyByCode(err error) (kind error, coded bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrUniqueViolation, true
		case pgForeignKeyViolation:
			return ErrForeignKeyViolation, true
		}
		return nil, true
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlDupEntry:
			return ErrUniqueViolation, true
		case mysqlRowIsReferenced, mysqlNoReferencedRow, mysqlRowIsReferenced2, mysqlNoReferencedRow2:
			return ErrForeignKeyViolation, true
		}
		return nil, true
	}

	var sqliteErr *sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode() {
		case sqlite3.CONSTRAINT_UNIQUE, sqlite3.CONSTRAINT_PRIMARYKEY:
			return ErrUniqueViolation, true
		case sqlite3.CONSTRAINT_FOREIGNKEY:
			return ErrForeignKeyViolation, true
		}
		return nil, true
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrUniqueViolation, true
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKeyViolation, true
	}
	return nil, false
}

// classifyByText is the fallback for drivers without structured codes. The
// error type name is checked before the message and unique before foreign key.
func classifyByText(err error) error {
	name := strings.ToLower(reflect.TypeOf(err).String())
	switch {
	case strings.Contains(name, "unique"):
		return ErrUniqueViolation
	case strings.Contains(name, "foreign"), strings.Contains(name, "referential"):
		return ErrForeignKeyViolation
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique"):
		return ErrUniqueViolation
	case strings.Contains(msg, "foreign key"):
		return ErrForeignKeyViolation
	}
	return nil
}
