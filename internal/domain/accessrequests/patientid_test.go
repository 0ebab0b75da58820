package accessrequests

import "testing"

func TestNormalizePatientID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"p9", "P0009"},
		{"P009", "P0009"},
		{"P0009", "P0009"},
		{"p0042", "P0042"},
		{"  p9  ", "P0009"},
		{"P12345", "P12345"}, // sufijo más largo que el ancho, no se recorta
		{"d7", "D0007"},
		{"abc", "ABC"}, // sin sufijo numérico: sólo mayúsculas
		{"", ""},
		{"   ", ""},
		{"9", "0009"}, // sin prefijo alfabético
		{"p", "P"},
	}

	for _, tc := range cases {
		got := NormalizePatientID(tc.in)
		if got != tc.want {
			t.Errorf("NormalizePatientID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizePatientID_Idempotent(t *testing.T) {
	for _, in := range []string{"p9", "P009", "doc12", "X", "p0042"} {
		once := NormalizePatientID(in)
		twice := NormalizePatientID(once)
		if once != twice {
			t.Errorf("NormalizePatientID no es idempotente para %q: %q vs %q", in, once, twice)
		}
	}
}
