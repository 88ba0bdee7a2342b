package valkey

import "testing"

func TestOperation(t *testing.T) {
	cases := map[string]string{
		"properties:search:abc": "properties",
		"property:p1":           "property",
		"nocolon":               "other",
		":leading":              "other",
	}
	for key, want := range cases {
		if got := operation(key); got != want {
			t.Errorf("operation(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestPreferenceHash(t *testing.T) {
	if got := PreferenceHash("abc"); got != "evoteli:prefs:abc" {
		t.Errorf("hash = %q", got)
	}
}
