package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConfig
	KindPermission
	KindNetwork
	KindNotFound
	KindTimeout
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindPermission:
		return "permission"
	case KindNetwork:
		return "network"
	case KindNotFound:
		return "not-found"
	case KindTimeout:
		return "timeout"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// StoreError carries a classified kind plus the short message shown to users.
type StoreError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *StoreError) Unwrap() error { return e.Err }

func NewError(kind ErrorKind, message string) *StoreError {
	return &StoreError{Kind: kind, Message: message}
}

// KindOf returns the classified kind of err, or KindUnknown when err carries
// no StoreError in its chain.
func KindOf(err error) ErrorKind {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

// MySQL server error numbers that indicate a credentials/grants problem
// rather than an unreachable server.
var mysqlPermissionCodes = map[uint16]bool{
	1044: true, // access denied for user to database
	1045: true, // access denied (bad credentials)
	1142: true, // command denied on table
	1143: true, // column access denied
	1227: true, // missing privilege
}

// Classify maps a raw backend error onto the error taxonomy and attaches the
// user-facing message for that class. Already-classified errors pass through.
func Classify(err error) *StoreError {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return se
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &StoreError{Kind: KindTimeout, Message: "Request timed out", Err: err}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &StoreError{Kind: KindNotFound, Message: "Record not found", Err: err}
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if mysqlPermissionCodes[myErr.Number] {
			return &StoreError{Kind: KindPermission, Message: "Permission denied by the database. Check the configured credentials and grants.", Err: err}
		}
		if myErr.Number == 1146 { // table doesn't exist
			return &StoreError{Kind: KindNotFound, Message: "Record not found", Err: err}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, driver.ErrBadConn) {
		return &StoreError{Kind: KindNetwork, Message: "Network offline. Working from local data.", Err: err}
	}
	msg := err.Error()
	if strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") || strings.Contains(msg, "i/o timeout") {
		return &StoreError{Kind: KindNetwork, Message: "Network offline. Working from local data.", Err: err}
	}

	return &StoreError{Kind: KindUnknown, Message: "Unexpected storage error", Err: err}
}
