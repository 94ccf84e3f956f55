package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOutputPath(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	allowed := filepath.Join(root, "reports")
	outside := filepath.Join(root, "elsewhere")
	require.NoError(t, os.MkdirAll(allowed, 0o755))
	require.NoError(t, os.MkdirAll(outside, 0o755))
	link := filepath.Join(allowed, "escape")
	require.NoError(t, os.Symlink(outside, link))

	tests := []struct {
		name    string
		path    string
		ext     string
		wantErr bool
	}{
		{"file in dir", filepath.Join(allowed, "trend.png"), ".png", false},
		{"new subdir", filepath.Join(allowed, "2025", "03", "trend.png"), ".png", false},
		{"extension case", filepath.Join(allowed, "TREND.PNG"), ".png", false},
		{"wrong extension", filepath.Join(allowed, "trend.jpg"), ".png", true},
		{"dot dot", filepath.Join(allowed, "..", "elsewhere", "trend.png"), ".png", true},
		{"sibling", filepath.Join(outside, "trend.png"), ".png", true},
		{"symlinked parent", filepath.Join(link, "trend.png"), ".png", true},
		{"symlinked parent new dir", filepath.Join(link, "new", "trend.png"), ".png", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateOutputPath(tt.path, tt.ext, allowed)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}

	err := ValidateOutputPath(filepath.Join(outside, "x.html"), ".html", allowed)
	assert.ErrorIs(t, err, ErrPathEscapes)
}

func TestValidateOutputPathDefaults(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateOutputPath(filepath.Join(t.TempDir(), "chart.html"), ".html"))
	assert.NoError(t, ValidateOutputPath("chart.html", ".html"))
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"":                 "unknown",
		"plain-name_1.2":   "plain-name_1.2",
		"../../etc/passwd": "etc_passwd",
		"a  b//c":          "a_b_c",
		"...":              "unknown",
		"café":             "caf",
		"regions-3f2a 9b":  "regions-3f2a_9b",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, SanitizeFilename(string(long)), 128)
}

func TestReportFilename(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "regions-3f2a-11.html", ReportFilename("regions", "3f2a-11", ".html"))
	assert.Equal(t, "trend-a_b.png", ReportFilename("trend", "a/b", ".png"))
}
