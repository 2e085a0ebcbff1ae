package handlers

import "testing"

func TestFilenameToken(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"user-1", "user-1"},
		{"user 1", "user-1"},
		{`alice";evil=1`, "alice---evil-1"},
		{"a/b\\c", "a-b-c"},
		{"Ünïcode", "-n-code"},
		{"", "owner"},
	}
	for _, tc := range cases {
		if got := filenameToken(tc.in); got != tc.want {
			t.Errorf("filenameToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
