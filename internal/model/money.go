package model

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in cents.  Prices and totals are stored as
// DECIMAL(10,2) columns and travel as plain JSON numbers (120.5), but
// arithmetic is done on integer cents so that price × nights is exact.
type Money int64

// MaxMoney is the largest amount a DECIMAL(10,2) column holds.
const MaxMoney Money = 9999999999

// MoneyFromFloat converts a decimal amount such as 120.5 to cents,
// rounding half away from zero.  Amounts beyond the int64 range saturate
// and NaN is zero.
func MoneyFromFloat(f float64) Money {
	c := math.Round(f * 100)
	switch {
	case math.IsNaN(c):
		return 0
	case c >= math.MaxInt64:
		return math.MaxInt64
	case c <= math.MinInt64:
		return math.MinInt64
	}
	return Money(c)
}

// ParseMoney parses a decimal string ("120", "120.5", "120.50").
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("money: empty value")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("money: %w", err)
	}
	return MoneyFromFloat(f), nil
}

// Float returns the amount as a decimal number of currency units.
func (m Money) Float() float64 { return float64(m) / 100 }

// Mul multiplies the amount by n (e.g. a number of nights).
func (m Money) Mul(n int) Money { return m * Money(n) }

// String formats the amount with two decimals ("360.00").
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Value implements driver.Valuer.  The decimal string form is accepted by
// both MySQL and Postgres DECIMAL columns without float rounding.
func (m Money) Value() (driver.Value, error) { return m.String(), nil }

// Scan implements sql.Scanner for DECIMAL columns, which drivers return as
// []byte, string, float64 or int64 depending on the dialect.
func (m *Money) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = 0
		return nil
	case []byte:
		p, err := ParseMoney(string(v))
		if err != nil {
			return err
		}
		*m = p
		return nil
	case string:
		p, err := ParseMoney(v)
		if err != nil {
			return err
		}
		*m = p
		return nil
	case float64:
		*m = MoneyFromFloat(v)
		return nil
	case int64:
		*m = Money(v * 100)
		return nil
	}
	return fmt.Errorf("money: cannot scan %T", src)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Float(), 'f', -1, 64)), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "null" || s == "" {
		*m = 0
		return nil
	}
	p, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = p
	return nil
}
