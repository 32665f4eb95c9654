package textutil

import "testing"

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Alabama  Crimson Tide ", "alabama crimson tide"},
		{"STRASSE", "strasse"},
		{"Straße", "strasse"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMutualContains(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"ours shorter", "Alabama", "Alabama Crimson Tide", true},
		{"ours longer", "Texas A&M Aggies", "texas a&m", true},
		{"case only", "LSU", "lsu", true},
		{"unrelated", "Alabama", "Auburn Tigers", false},
		{"empty ours", "", "Auburn", false},
		{"empty theirs", "Auburn", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MutualContains(tt.a, tt.b); got != tt.want {
				t.Fatalf("MutualContains(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in          string
		first, last string
	}{
		{"Bryce Young", "Bryce", "Young"},
		{"Jalen Van Buren", "Jalen", "Van Buren"},
		{"Cher", "Cher", ""},
		{"  Will  Anderson Jr. ", "Will", "Anderson Jr."},
	}
	for _, tt := range tests {
		first, last := SplitName(tt.in)
		if first != tt.first || last != tt.last {
			t.Errorf("SplitName(%q) = (%q, %q), want (%q, %q)", tt.in, first, last, tt.first, tt.last)
		}
		if tt.last != "" && !EqualFold(FullName(first, last), tt.in) {
			t.Errorf("FullName round trip for %q = %q", tt.in, FullName(first, last))
		}
	}
}
