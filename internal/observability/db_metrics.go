package observability

import (
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// ObserveDB times one logical repository operation and counts its failures
// by class.
func (p *Prom) ObserveDB(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	status := "ok"

	if err != nil {
		status = "error"
		p.DbErrorsTotal.WithLabelValues(op, dbErrorClass(err)).Inc()
	}

	p.DbQueryDuration.WithLabelValues(op, status).Observe(elapsed.Seconds())

	return err
}

// dbErrorClass buckets a storage failure into a low-cardinality label value.
// Known SQLSTATE codes get stable names; an unrecognized code keeps its raw
// value so a new failure mode is still countable without a deploy.
func dbErrorClass(err error) string {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return "unique_violation"
		case "40001":
			return "serialization_failure"
		case "40P01":
			return "deadlock"
		case "57014":
			return "query_canceled"
		}

		return "pg_" + pgErr.Code
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "connection"):
		return "connection"
	}

	return "unknown"
}
