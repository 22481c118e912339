package version

import (
	"strings"
	"testing"
)

func TestShortRevision(t *testing.T) {
	tests := []struct {
		revision string
		dirty    bool
		want     string
	}{
		{"0123456789abcdef", false, "0123456"},
		{"0123456789abcdef", true, "0123456-dirty"},
		{"abc", false, "abc"},
	}

	for _, tt := range tests {
		if got := shortRevision(tt.revision, tt.dirty); got != tt.want {
			t.Errorf("shortRevision(%q, %v) = %s, want %s", tt.revision, tt.dirty, got, tt.want)
		}
	}
}

func TestFull(t *testing.T) {
	if Version == "" || Commit == "" {
		t.Fatal("Version and Commit should be populated by init")
	}
	if got := Full(); !strings.Contains(got, "(commit: "+Commit+")") {
		t.Errorf("Full() = %s", got)
	}
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	if !strings.HasPrefix(ua, "fbxgo/"+Version+" (") {
		t.Errorf("UserAgent() = %s", ua)
	}
}
