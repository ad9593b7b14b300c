package checkout

import (
	"math"
	"strconv"
	"strings"
)

// Fee policy constants. The fee shown to the buyer is an estimate; the
// processor computes the authoritative fee at settlement.
const (
	MinAmountCents = 100
	feeRate        = 0.029
	fixedFeeCents  = 30.0
)

// Total is the canonical buyer-facing breakdown in integer cents.
type Total struct {
	BaseCents  int64
	FeeCents   int64
	TotalCents int64
}

// ParseAmount parses currency-like text ("$25", "25.00", "1,250.50") into
// cents. Everything but digits and the decimal point is stripped before
// parsing. Fails with *InvalidAmountError when the result is not finite or
// below the $1.00 minimum.
func ParseAmount(raw string) (int64, error) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &InvalidAmountError{Raw: raw}
	}
	cents := int64(math.Round(v * 100))
	if cents < MinAmountCents {
		return 0, &InvalidAmountError{Raw: raw}
	}
	return cents, nil
}

// ComputeFee estimates the processing surcharge for a base amount:
// ceil(base*0.029 + 0.30) in cents.
func ComputeFee(baseCents int64) int64 {
	return int64(math.Ceil(float64(baseCents)*feeRate + fixedFeeCents))
}

// ComputeTotal is the single source of fee math; other components call it
// rather than recomputing inline.
func ComputeTotal(baseCents int64, coverFees bool) Total {
	t := Total{BaseCents: baseCents}
	if coverFees {
		t.FeeCents = ComputeFee(baseCents)
	}
	t.TotalCents = t.BaseCents + t.FeeCents
	return t
}
