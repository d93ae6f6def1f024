package proc

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidates(t *testing.T) {
	cases := map[string]struct {
		name       string
		searchPath string
		expected   []string
	}{
		"in-order":        {"ls", "/usr/bin:/bin", []string{"/usr/bin/ls", "/bin/ls"}},
		"empty-path":      {"ls", "", nil},
		"skips-empty-dir": {"ls", "/bin::/sbin:", []string{"/bin/ls", "/sbin/ls"}},
		"relative-dir":    {"run", "bin", []string{"bin/run"}},
		"absolute-name":   {"/bin/ls", "/usr/bin", []string{"/bin/ls"}},
		"relative-name":   {"./run.sh", "/usr/bin", []string{"./run.sh"}},
		"no-name":         {"", "/usr/bin", nil},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			actual := slices.Collect(Candidates(tc.name, tc.searchPath))
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestCandidates_stopsEarly(t *testing.T) {
	var seen []string
	for path := range Candidates("ls", "/a:/b:/c") {
		seen = append(seen, path)
		if len(seen) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"/a/ls", "/b/ls"}, seen)
}

func TestSplitSearchPath(t *testing.T) {
	assert.Nil(t, SplitSearchPath(""))
	assert.Equal(t, []string{"/bin"}, SplitSearchPath(":/bin:"))
}
