package util

import "testing"

func TestStorageKey(t *testing.T) {
	cases := []struct {
		ns    string
		token uint64
		steps uint32
		want  string
	}{
		{"run-a", 125, 25, "memo:run-a:125:25"},
		{"", 0, 0, "memo::0:0"},
		{"x", 18446744073709551615, 4294967295, "memo:x:18446744073709551615:4294967295"},
	}
	for _, tc := range cases {
		if got := StorageKey(tc.ns, tc.token, tc.steps); got != tc.want {
			t.Fatalf("StorageKey(%q,%d,%d)=%q want %q", tc.ns, tc.token, tc.steps, got, tc.want)
		}
	}
}

func TestStorageKeyDistinguishesTokenAndSteps(t *testing.T) {
	// 1:23 and 12:3 must not collide
	if StorageKey("n", 1, 23) == StorageKey("n", 12, 3) {
		t.Fatalf("keys collide across token/steps boundary")
	}
}
