package buildinfo

import "testing"

func TestRelease(t *testing.T) {
	defer func(v, c string) { Version, Commit = v, c }(Version, Commit)

	tests := []struct {
		version, commit, want string
	}{
		{"", "", "dev"},
		{"v1.2.0", "", "v1.2.0"},
		{"v1.2.0", "abc1234def", "v1.2.0+abc1234"},
		{"", "abc1234def", "dev+abc1234"},
		{"v1.2.0", "abc", "v1.2.0"},
	}
	for _, tt := range tests {
		Version, Commit = tt.version, tt.commit
		if got := Release(); got != tt.want {
			t.Errorf("Release() with %q/%q = %q, want %q", tt.version, tt.commit, got, tt.want)
		}
	}
}
