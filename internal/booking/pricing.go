package booking

import (
	"time"

	"github.com/iliyamo/hotelhub-pms/internal/model"
)

const secondsPerDay = 24 * 60 * 60

// Nights returns the number of nights between in and out, rounding a
// partial day up.  It returns 0 when out is not after in.  The count is
// taken from Unix seconds so stays longer than time.Duration can hold are
// still counted exactly.
func Nights(in, out time.Time) int {
	secs := out.Unix() - in.Unix()
	if out.Nanosecond() > in.Nanosecond() {
		secs++ // a partial second still rounds up
	}
	if secs <= 0 {
		return 0
	}
	n := secs / secondsPerDay
	if secs%secondsPerDay != 0 {
		n++
	}
	return int(n)
}

// Total is the charge for nights at price per night.
func Total(price model.Money, nights int) model.Money {
	return price.Mul(nights)
}

// Price returns explicit when it is positive and otherwise the computed
// total for the stay.
func Price(price model.Money, nights int, explicit model.Money) model.Money {
	if explicit > 0 {
		return explicit
	}
	return Total(price, nights)
}
