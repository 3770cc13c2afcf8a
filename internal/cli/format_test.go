package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "₹0.00"},
		{40, "₹40.00"},
		{950.5, "₹950.50"},
		{1234567.891, "₹1,234,567.89"},
		{-12.3, "-₹12.30"},
	}
	for _, tt := range tests {
		if got := FormatMoney("₹", tt.amount); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatDecimalSum(t *testing.T) {
	sum := decimal.NewFromFloat(0.1).Add(decimal.NewFromFloat(0.2))
	if got := FormatDecimal("$", sum); got != "$0.30" {
		t.Fatalf("FormatDecimal = %q", got)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"950", 950},
		{" 1,200.50 ", 1200.5},
		{"₹40", 40},
		{"0", 0},
	}
	for _, tt := range tests {
		got, err := ParseAmount("₹", tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseAmount(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}

	for _, bad := range []string{"", "abc", "-5", "₹"} {
		if _, err := ParseAmount("₹", bad); !errors.Is(err, ErrBadAmount) {
			t.Errorf("ParseAmount(%q) err = %v, want ErrBadAmount", bad, err)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestMaskKey(t *testing.T) {
	if got := MaskKey("abcd1234efgh5678"); got != "abcd...5678" {
		t.Errorf("MaskKey(long) = %q", got)
	}
	if got := MaskKey("abcdef"); got != "abcd..." {
		t.Errorf("MaskKey(short) = %q", got)
	}
	if got := MaskKey("abc"); got != "****" {
		t.Errorf("MaskKey(tiny) = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Shaniwar Wada", 8); got != "Shaniwa…" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("Fort", 8); got != "Fort" {
		t.Errorf("Truncate short = %q", got)
	}
}

func TestRenderTableAlignsMultibyteCells(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Name", "Amount"},
		Rows: [][]string{
			{"Taxi", "₹950.00"},
			{"Museum", "₹25.00"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	want := len([]rune(stripANSI(lines[0])))
	for _, l := range lines[1:] {
		if got := len([]rune(stripANSI(l))); got != want {
			t.Fatalf("ragged table row %q (%d runes, want %d)", stripANSI(l), got, want)
		}
	}
}

// stripANSI removes SGR escape sequences.
func stripANSI(s string) string {
	var b strings.Builder
	skip := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			skip = true
		case skip && r == 'm':
			skip = false
		case !skip:
			b.WriteRune(r)
		}
	}
	return b.String()
}
