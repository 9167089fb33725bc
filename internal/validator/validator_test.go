package validator

import "testing"

func TestUSNPattern(t *testing.T) {
	tests := []struct {
		usn  string
		want bool
	}{
		{"1PL22CS001", true},
		{"4NM21EC117", true},
		{"1pl22cs001", false}, // lowercase
		{"1PL22CS01", false},  // too short
		{"1PL22CS0011", false},
		{"APL22CS001", false}, // college digit missing
		{"1PL22C S01", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := usnPattern.MatchString(tt.usn); got != tt.want {
			t.Errorf("usnPattern.MatchString(%q) = %v, want %v", tt.usn, got, tt.want)
		}
	}
}
