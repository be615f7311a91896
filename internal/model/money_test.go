package model

import (
	"encoding/json"
	"math"
	"testing"
)

func TestMoneyScan(t *testing.T) {
	tests := []struct {
		src  any
		want Money
	}{
		{[]byte("120.00"), 12000},
		{"99.9", 9990},
		{float64(0.1 + 0.2), 30},
		{int64(75), 7500},
		{nil, 0},
	}
	for _, tt := range tests {
		var m Money
		if err := m.Scan(tt.src); err != nil {
			t.Fatalf("Scan(%v): %v", tt.src, err)
		}
		if m != tt.want {
			t.Errorf("Scan(%v) = %d, want %d", tt.src, m, tt.want)
		}
	}
}

func TestMoneyMulIsExact(t *testing.T) {
	price := MoneyFromFloat(120)
	if got := price.Mul(3); got.String() != "360.00" {
		t.Fatalf("120 × 3 = %s, want 360.00", got)
	}
	if got := MoneyFromFloat(19.99).Mul(3); got != 5997 {
		t.Fatalf("19.99 × 3 = %d cents, want 5997", got)
	}
}

func TestMoneyFromFloatSaturates(t *testing.T) {
	tests := []struct {
		in   float64
		want Money
	}{
		{1e20, math.MaxInt64},
		{-1e20, math.MinInt64},
		{math.Inf(1), math.MaxInt64},
		{math.NaN(), 0},
		{99999999.99, MaxMoney},
	}
	for _, tt := range tests {
		if got := MoneyFromFloat(tt.in); got != tt.want {
			t.Errorf("MoneyFromFloat(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Total Money `json:"total"`
	}{Total: 36050})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"total":360.5}` {
		t.Fatalf("marshal = %s", b)
	}

	var in struct {
		Total Money `json:"total"`
	}
	if err := json.Unmarshal([]byte(`{"total":"145.25"}`), &in); err != nil {
		t.Fatal(err)
	}
	if in.Total != 14525 {
		t.Fatalf("unmarshal = %d, want 14525", in.Total)
	}
}
