package core

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"
)

const OrderingField = "ordering"

// DBExecutor is satisfied by both *sql.DB and *sql.Tx.
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// CheckOrdering makes sure every ordering field is one of `allowed`.
// Ordering fields end up in raw SQL, so this must run before any query is built.
func CheckOrdering(ordering []DBOrdering, allowed ...string) error {
	for _, ord := range ordering {
		ok := false
		for _, fld := range allowed {
			if ord.Field == fld {
				ok = true
				break
			}
		}
		if !ok {
			return NewValidationError(
				errors.New("invalid ordering"),
				FieldError{Field: OrderingField, Error: fmt.Sprintf("cannot order by %q", ord.Field)},
			)
		}
	}
	return nil
}
