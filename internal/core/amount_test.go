package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"12.50", "12.5", true},
		{"0", "0", true},
		{"-9.00", "-9", true},
		{" 2.50 ", "2.5", true},
		{"1200", "1200", true},
		{"abc", "", false},
		{"$12.50", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestAmountAbs(t *testing.T) {
	a, err := ParseAmount("-9.00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !a.IsNegative() {
		t.Fatalf("expected negative amount")
	}
	want, _ := ParseAmount("9")
	if !a.Abs().Equal(want) {
		t.Fatalf("abs(-9.00) = %s, want 9", a.Abs())
	}
}

func TestAmountJSONRoundTrip(t *testing.T) {
	// Amounts must serialize as bare numbers, not strings.
	a, _ := ParseAmount("12.50")
	b, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "12.5" {
		t.Fatalf("marshal = %s, want 12.5", b)
	}

	var fromNumber Amount
	if err := json.Unmarshal([]byte(`3.75`), &fromNumber); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	var fromString Amount
	if err := json.Unmarshal([]byte(`"3.75"`), &fromString); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if !fromNumber.Equal(fromString) {
		t.Fatalf("number and string forms disagree: %s vs %s", fromNumber, fromString)
	}

	var bad Amount
	if err := json.Unmarshal([]byte(`"nope"`), &bad); err == nil {
		t.Fatalf("expected error for non-numeric amount")
	}
}
