package repository

import (
	"database/sql"
	"time"

	"github.com/iliyamo/hotelhub-pms/internal/model"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// nullMoney scans a nullable DECIMAL column.
type nullMoney struct {
	Money model.Money
	Valid bool
}

func (n *nullMoney) Scan(src any) error {
	if src == nil {
		n.Money, n.Valid = 0, false
		return nil
	}
	n.Valid = true
	return n.Money.Scan(src)
}

func (n nullMoney) ptr() *model.Money {
	if !n.Valid {
		return nil
	}
	m := n.Money
	return &m
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// nullable converts an optional string into a driver argument, mapping
// nil and "" to SQL NULL.
func nullable(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

// moneyArg converts an optional amount into a driver argument.
func moneyArg(m *model.Money) any {
	if m == nil {
		return nil
	}
	return m.String()
}

// dateArg formats a calendar date for DATE columns.
func dateArg(t time.Time) string { return t.Format("2006-01-02") }

// placeholders returns "?,?,?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, 0, 2*n-1)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, '?')
	}
	return string(b)
}

func statusArgs(statuses []model.ReservationStatus) []any {
	out := make([]any, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
