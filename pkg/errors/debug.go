package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// StoreError is the driver-level cause of a persistence failure.
type StoreError struct {
	Driver     string `json:"driver"`
	Code       string `json:"code"`
	Extended   string `json:"extended,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Message    string `json:"message,omitempty"`
}

type ErrorDump struct {
	TopMessage string      `json:"top_message"`
	Code       Code        `json:"code,omitempty"`
	Chain      []string    `json:"chain,omitempty"`
	Store      *StoreError `json:"store,omitempty"`
}

// Dump flattens err for logging: the typed code, the unwrap chain and the
// SQLite or Postgres error found in it, if any.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error(), Store: storeError(err)}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	return d
}

// Fields renders the dump as log fields. Store details are prefixed with
// "db_" so they sort together.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{
		"error_message": d.TopMessage,
		"error_code":    d.Code,
		"error_chain":   d.Chain,
	}
	if s := d.Store; s != nil {
		fields["db_driver"] = s.Driver
		fields["db_code"] = s.Code
		for key, value := range map[string]string{
			"db_extended":   s.Extended,
			"db_constraint": s.Constraint,
			"db_table":      s.Table,
			"db_column":     s.Column,
			"db_detail":     s.Detail,
			"db_message":    s.Message,
		} {
			if value != "" {
				fields[key] = value
			}
		}
	}
	return fields
}

func storeError(err error) *StoreError {
	var lite sqlite3.Error
	if errors.As(err, &lite) {
		return &StoreError{
			Driver:   "sqlite",
			Code:     lite.Code.Error(),
			Extended: lite.ExtendedCode.Error(),
			Message:  lite.Error(),
		}
	}

	var pgx *pgconn.PgError
	if errors.As(err, &pgx) {
		return &StoreError{
			Driver:     "postgres",
			Code:       pgx.Code,
			Constraint: pgx.ConstraintName,
			Table:      pgx.TableName,
			Column:     pgx.ColumnName,
			Detail:     pgx.Detail,
			Message:    pgx.Message,
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &StoreError{
			Driver:     "postgres",
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}
	return nil
}
