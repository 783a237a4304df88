package money

import (
	"encoding/json"
	"testing"
)

func TestFromMADRounding(t *testing.T) {
	cases := []struct {
		in   float64
		want Amount
	}{
		{0, 0},
		{1, 100},
		{50, 5000},
		{12.34, 1234},
		{12.345, 1235},
		{0.005, 1},
		{-1.5, -150},
	}
	for _, c := range cases {
		if got := FromMAD(c.in); got != c.want {
			t.Errorf("FromMAD(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestMADRoundTrip(t *testing.T) {
	a := FromMAD(1234.56)
	if a.MAD() != 1234.56 {
		t.Errorf("MAD() = %v, want 1234.56", a.MAD())
	}
}

func TestString(t *testing.T) {
	if got := Amount(5000).String(); got != "50.00 MAD" {
		t.Errorf("String() = %q, want %q", got, "50.00 MAD")
	}
	if got := Amount(-150).String(); got != "-1.50 MAD" {
		t.Errorf("String() = %q, want %q", got, "-1.50 MAD")
	}
	if got := Amount(5).String(); got != "0.05 MAD" {
		t.Errorf("String() = %q, want %q", got, "0.05 MAD")
	}
}

func TestMarshalJSON(t *testing.T) {
	data, err := json.Marshal(Amount(1234))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != "12.34" {
		t.Errorf("Marshal = %s, want 12.34", data)
	}
}

func TestUnmarshalJSON(t *testing.T) {
	var a Amount
	if err := json.Unmarshal([]byte("50"), &a); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if a != 5000 {
		t.Errorf("Unmarshal(50) = %d, want 5000", a)
	}
	if err := json.Unmarshal([]byte("null"), &a); err != nil {
		t.Fatalf("Unmarshal null: %v", err)
	}
	if a != 0 {
		t.Errorf("Unmarshal(null) = %d, want 0", a)
	}
	if err := json.Unmarshal([]byte(`"abc"`), &a); err == nil {
		t.Error("expected error for non-numeric input")
	}
}

func TestScan(t *testing.T) {
	var a Amount
	if err := a.Scan([]byte("123.45")); err != nil {
		t.Fatalf("Scan bytes: %v", err)
	}
	if a != 12345 {
		t.Errorf("Scan([]byte) = %d, want 12345", a)
	}

	if err := a.Scan(nil); err != nil {
		t.Fatalf("Scan nil: %v", err)
	}
	if a != 0 {
		t.Errorf("Scan(nil) = %d, want 0", a)
	}

	if err := a.Scan("oops"); err == nil {
		t.Error("expected error for invalid decimal")
	}
}

func TestValue(t *testing.T) {
	v, err := Amount(12345).Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != "123.45" {
		t.Errorf("Value = %v, want 123.45", v)
	}
}
