package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/dirstat/internal/dirstat"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	for _, env := range append([]string{"LOG_LEVEL"}, BlockSizeEnv...) {
		t.Setenv(env, "")
	}

	var stdout, stderr bytes.Buffer

	cmd := New("v1.2.3").Command(&stdout, &stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func writeTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), bytes.Repeat([]byte("x"), 10), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.txt"), bytes.Repeat([]byte("x"), 20), 0o644))

	return root
}

func lines(out ...string) string {
	return strings.Join(out, "\n") + "\n"
}

func TestCommandText(t *testing.T) {
	root := writeTree(t)
	sub := filepath.Join(root, "sub")

	link := filepath.Join(t.TempDir(), "link")
	require.NoError(t, os.Symlink(root, link))

	type scenario struct {
		name     string
		args     []string
		expected string
	}

	scenarios := []scenario{
		{
			"bytes",
			[]string{"-b", root},
			lines("20\t"+sub, "30\t"+root),
		},
		{
			"bytes with total",
			[]string{"-b", "-c", root},
			lines("20\t"+sub, "30\t"+root, "30\ttotal"),
		},
		{
			"all entries",
			[]string{"--apparent-size", "--block-size=1", "-a", root},
			lines("10\t"+filepath.Join(root, "a.txt"), "20\t"+filepath.Join(sub, "b.txt"), "20\t"+sub, "30\t"+root),
		},
		{
			"summarize",
			[]string{"-bs", root},
			lines("30\t" + root),
		},
		{
			"max depth zero",
			[]string{"-b", "-d", "0", root},
			lines("30\t" + root),
		},
		{
			"parallel summary",
			[]string{"-bs", "--parallel", root},
			lines("30\t" + root),
		},
		{
			"parallel summary of a followed symlink",
			[]string{"-bs", "-H", "--parallel", link},
			lines("30\t" + link),
		},
		{
			"summary of a followed symlink",
			[]string{"-bs", "-H", link},
			lines("30\t" + link),
		},
		{
			"kilobytes round up",
			[]string{"--apparent-size", "-k", root},
			lines("1\t"+sub, "1\t"+root),
		},
		{
			"human readable",
			[]string{"-b", "-h", "-s", root},
			lines("30 B\t" + root),
		},
		{
			"two arguments",
			[]string{"-bsc", root, sub},
			lines("30\t"+root, "20\t"+sub, "50\ttotal"),
		},
		{
			"excluded subtree",
			[]string{"-b", "-e", "/sub$", root},
			lines("10\t" + root),
		},
	}

	for _, s := range scenarios {
		t.Run(s.name, func(t *testing.T) {
			stdout, _, err := execute(t, s.args...)
			require.NoError(t, err)
			assert.Equal(t, s.expected, stdout)
		})
	}
}

func TestCommandBlockSizeFromEnvironment(t *testing.T) {
	root := writeTree(t)

	var stdout, stderr bytes.Buffer

	t.Setenv("BLOCK_SIZE", "")
	t.Setenv("DIRSTAT_BLOCK_SIZE", "1")

	cmd := New("v1.2.3").Command(&stdout, &stderr)
	cmd.SetArgs([]string{"--apparent-size", "-s", root})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, lines("30\t"+root), stdout.String())
}

func TestCommandJSON(t *testing.T) {
	root := writeTree(t)

	stdout, _, err := execute(t, "-b", "-o", "json", root)
	require.NoError(t, err)

	var stats dirstat.Stats
	require.NoError(t, json.Unmarshal([]byte(stdout), &stats))

	assert.EqualValues(t, 30, stats.Total)
	assert.Zero(t, stats.ErrorCount)
	assert.Equal(t, []dirstat.FileStat{
		{Path: filepath.ToSlash(filepath.Join(root, "sub")), Size: 20},
		{Path: filepath.ToSlash(root), Size: 30},
	}, stats.Entries)
}

func TestCommandPartialFailure(t *testing.T) {
	root := writeTree(t)
	missing := filepath.Join(root, "missing")

	stdout, stderr, err := execute(t, "-bsc", missing, root)
	require.ErrorIs(t, err, dirstat.ErrPartial)
	assert.Equal(t, lines("30\t"+root, "30\ttotal"), stdout)
	assert.Contains(t, stderr, "no such file or directory")
}

func TestCommandInvalidConfiguration(t *testing.T) {
	root := writeTree(t)

	scenarios := [][]string{
		{"-s", "-d", "1", root},
		{"-s", "-a", root},
		{"-d", "-2", root},
		{"-o", "xml", root},
		{"-B", "0", root},
		{"-B", "lots", root},
		{"-e", "(", root},
		{"--parallel", root},
		{"--parallel", "-s", "-L", root},
		{"-L", "-P", root},
	}

	for _, args := range scenarios {
		stdout, _, err := execute(t, args...)
		assert.Error(t, err, "%v", args)
		assert.Empty(t, stdout, "%v", args)
	}
}

func TestCommandDebugLog(t *testing.T) {
	root := writeTree(t)
	require.NoError(t, os.Link(filepath.Join(root, "a.txt"), filepath.Join(root, "sub", "a-link")))

	_, stderr, err := execute(t, "--debug", "-b", root)
	require.NoError(t, err)
	assert.Contains(t, stderr, `msg="skipping: already counted"`)
	assert.Contains(t, stderr, "kind=file")
	assert.Contains(t, stderr, `msg="2 records"`)
}

func TestCommandVersion(t *testing.T) {
	stdout, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "v1.2.3\n", stdout)
}
