package checkout

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    int64
		wantErr bool
	}{
		{name: "plain dollars", raw: "25", want: 2500},
		{name: "dollars and cents", raw: "25.50", want: 2550},
		{name: "currency symbol", raw: "$25.00", want: 2500},
		{name: "thousands separator", raw: "1,250.50", want: 125050},
		{name: "minimum", raw: "1.00", want: 100},
		{name: "below minimum", raw: "0.99", wantErr: true},
		{name: "zero", raw: "0", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "letters only", raw: "abc", wantErr: true},
		{name: "multiple dots", raw: "1.2.3", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAmount(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) = %d, want error", tc.raw, got)
				}
				var invalid *InvalidAmountError
				if !errors.As(err, &invalid) {
					t.Fatalf("ParseAmount(%q) error = %v, want *InvalidAmountError", tc.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) error: %v", tc.raw, err)
			}
			if got != tc.want {
				t.Errorf("ParseAmount(%q) = %d, want %d", tc.raw, got, tc.want)
			}
		})
	}
}

func TestComputeFee(t *testing.T) {
	cases := []struct {
		baseCents int64
		want      int64
	}{
		{baseCents: 1000, want: 59},   // 10.00 -> 0.29 + 0.30 = 0.59
		{baseCents: 2500, want: 103},  // 25.00 -> 0.725 + 0.30 = 1.025, ceil
		{baseCents: 100, want: 33},    // 1.00 -> 0.029 + 0.30 = 0.329, ceil
		{baseCents: 10000, want: 320}, // 100.00 -> 2.90 + 0.30
	}
	for _, tc := range cases {
		if got := ComputeFee(tc.baseCents); got != tc.want {
			t.Errorf("ComputeFee(%d) = %d, want %d", tc.baseCents, got, tc.want)
		}
	}
}

func TestComputeTotal(t *testing.T) {
	t.Run("without fees", func(t *testing.T) {
		total := ComputeTotal(2500, false)
		if total.FeeCents != 0 {
			t.Errorf("FeeCents = %d, want 0", total.FeeCents)
		}
		if total.TotalCents != 2500 {
			t.Errorf("TotalCents = %d, want 2500", total.TotalCents)
		}
	})
	t.Run("covering fees", func(t *testing.T) {
		total := ComputeTotal(2500, true)
		if total.FeeCents != 103 {
			t.Errorf("FeeCents = %d, want 103", total.FeeCents)
		}
		if total.TotalCents != 2603 {
			t.Errorf("TotalCents = %d, want 2603", total.TotalCents)
		}
	})
}
