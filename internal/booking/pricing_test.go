package booking

import (
	"testing"
	"time"

	"github.com/iliyamo/hotelhub-pms/internal/model"
)

func TestNights(t *testing.T) {
	in := date("2024-01-10")
	cases := []struct {
		out  time.Time
		want int
	}{
		{date("2024-01-13"), 3},
		{date("2024-01-11"), 1},
		{in.Add(25 * time.Hour), 2},
		{in, 0},
		{in.Add(-time.Hour), 0},
	}
	for _, tc := range cases {
		if got := Nights(in, tc.out); got != tc.want {
			t.Errorf("Nights(%v, %v) = %d, want %d", in, tc.out, got, tc.want)
		}
	}
}

func TestNightsBeyondDurationRange(t *testing.T) {
	in, out := date("1700-01-01"), date("2024-01-01")
	want := int((out.Unix() - in.Unix()) / (24 * 60 * 60))
	if want != 118338 {
		t.Fatalf("calendar nights = %d", want)
	}
	if got := Nights(in, out); got != want {
		t.Fatalf("Nights = %d, want %d", got, want)
	}
}

func TestTotalThreeNights(t *testing.T) {
	n := Nights(date("2024-01-10"), date("2024-01-13"))
	got := Total(model.MoneyFromFloat(120), n)
	if got != model.MoneyFromFloat(360) {
		t.Fatalf("total = %s, want 360.00", got)
	}
}

func TestPriceExplicitOverride(t *testing.T) {
	price := model.MoneyFromFloat(99.5)
	if got := Price(price, 2, model.MoneyFromFloat(150)); got != model.MoneyFromFloat(150) {
		t.Fatalf("explicit total ignored: %s", got)
	}
	if got := Price(price, 2, 0); got != model.MoneyFromFloat(199) {
		t.Fatalf("computed total = %s, want 199.00", got)
	}
	if got := Price(price, 2, -5); got != model.MoneyFromFloat(199) {
		t.Fatalf("negative explicit total should be ignored, got %s", got)
	}
}
