package observe

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
)

// ParsePrice converts a scraped dollar figure ("3.79", "1,850.00") into
// a float64 USD/hour value rounded to 4 decimal places. Decimal math
// keeps the rounding exact regardless of how the page formats the
// amount.
func ParsePrice(raw string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, eris.Wrapf(err, "observe: parse price %q", raw)
	}
	if d.Sign() <= 0 {
		return 0, eris.Errorf("observe: non-positive price %q", raw)
	}
	return d.Round(4).InexactFloat64(), nil
}
