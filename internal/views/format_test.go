package views

import (
	"math"
	"testing"
)

func TestCurrency(t *testing.T) {
	us, err := NewFormatter("en-US", "$")
	if err != nil {
		t.Fatalf("formatter: %v", err)
	}
	in, err := NewFormatter("en-IN", "₹")
	if err != nil {
		t.Fatalf("formatter: %v", err)
	}

	tests := []struct {
		name string
		f    *Formatter
		v    float64
		want string
	}{
		{"large us", us, 5000000, "$5,000,000"},
		{"rounds up", us, 1234.5, "$1,235"},
		{"rounds down", us, 1234.4, "$1,234"},
		{"zero", us, 0, "$0"},
		{"negative", us, -2500, "$-2,500"},
		{"small in", in, 55000, "₹55,000"},
		{"hundreds in", in, 999, "₹999"},
		{"lakh in", in, 5000000, "₹50,00,000"},
		{"nan", us, math.NaN(), NotAvailable},
		{"inf", in, math.Inf(1), NotAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Currency(tt.v); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewFormatter_BadLocale(t *testing.T) {
	if _, err := NewFormatter("not a locale!", "₹"); err == nil {
		t.Fatal("expected error for invalid locale")
	}
}

func TestDecimal(t *testing.T) {
	tests := map[float64]string{
		5:     "5.0",
		30:    "30.0",
		7.94:  "7.9",
		-12.5: "-12.5",
	}
	for v, want := range tests {
		if got := Decimal(v); got != want {
			t.Errorf("Decimal(%v): expected %q, got %q", v, want, got)
		}
	}
	if got := Decimal(math.NaN()); got != NotAvailable {
		t.Errorf("Decimal(NaN): got %q", got)
	}
}
