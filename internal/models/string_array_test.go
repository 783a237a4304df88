package models

import "testing"

func TestStringArrayValueNil(t *testing.T) {
	var a StringArray
	v, err := a.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != "[]" {
		t.Errorf("nil array Value = %v, want []", v)
	}
}

func TestStringArrayRoundTrip(t *testing.T) {
	a := StringArray{"tuition", "books"}
	v, err := a.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var b StringArray
	if err := b.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(b) != 2 || b[0] != "tuition" || b[1] != "books" {
		t.Errorf("round trip = %v", b)
	}
}

func TestStringArrayScanLegacyCSV(t *testing.T) {
	var a StringArray
	if err := a.Scan("tuition, books ,housing"); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(a) != 3 || a[1] != "books" {
		t.Errorf("legacy CSV scan = %v", a)
	}
}

func TestStringArrayScanNull(t *testing.T) {
	var a StringArray
	if err := a.Scan(nil); err != nil {
		t.Fatalf("Scan nil: %v", err)
	}
	if a == nil || len(a) != 0 {
		t.Errorf("Scan(nil) = %v, want empty slice", a)
	}
}
