package decimal

import "testing"

func mustParse(t *testing.T, s string) string {
	t.Helper()
	d, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return Format(d)
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"15", "15"},
		{"0.125", "0.125"},
		{"2.50", "2.5"},
		{"100", "100"},
		{"1E+2", "100"},
		{"-0.0", "0"},
		{"-3.000", "-3"},
		{"0.0001", "0.0001"},
	}
	for _, tc := range cases {
		if got := mustParse(t, tc.in); got != tc.want {
			t.Errorf("Format(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestIsInteger(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"3", true},
		{"3.000", true},
		{"3.5", false},
		{"0", true},
		{"-12.0", true},
		{"1E+3", true},
	}
	for _, tc := range cases {
		d, err := Parse(tc.in)
		if err != nil {
			t.Fatal(err)
		}
		if got := IsInteger(d); got != tc.want {
			t.Errorf("IsInteger(%s) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFloorCeil(t *testing.T) {
	d, _ := Parse("2.5")
	if got := Format(Floor(d)); got != "2" {
		t.Errorf("Floor(2.5) = %s", got)
	}
	if got := Format(Ceil(d)); got != "3" {
		t.Errorf("Ceil(2.5) = %s", got)
	}
	n, _ := Parse("-2.5")
	if got := Format(Floor(n)); got != "-3" {
		t.Errorf("Floor(-2.5) = %s", got)
	}
}

func TestBigInt(t *testing.T) {
	d, _ := Parse("1.2E+3")
	i, ok := BigInt(d)
	if !ok || i.String() != "1200" {
		t.Errorf("BigInt(1.2E+3) = %v, %v", i, ok)
	}
	if got := Format(FromBigInt(i)); got != "1200" {
		t.Errorf("FromBigInt = %s", got)
	}
}
