package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// runCLI runs the CLI against an isolated config so the developer's own ~/.linealign is never picked up.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("LINEALIGN_CONFIG", filepath.Join(t.TempDir(), "none.toml"))
	var out, errW bytes.Buffer
	code := Run(append([]string{"linealign"}, args...), &RunOptions{Out: &out, Err: &errW})
	return code, out.String(), errW.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_CompareIdentical(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "one\ntwo\n")
	b := writeFile(t, dir, "b.txt", "one\ntwo\n")

	code, out, _ := runCLI(t, "compare", "--summary", a, b)
	require.Equal(t, 0, code)
	require.Equal(t, "identical\n", out)
}

func TestRun_CompareDifferent(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "one\ntwo\nthree\n")
	b := writeFile(t, dir, "b.txt", "one\nTWO\nthree\n")

	code, out, _ := runCLI(t, "compare", "--width=60", a, b)
	require.Equal(t, 1, code)
	require.Contains(t, out, "a.txt")
	require.Contains(t, out, "b.txt")
	require.Contains(t, out, "* ")
	require.Contains(t, out, "TWO")
}

func TestRun_CompareSummaryCounts(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "one\ntwo\n")
	b := writeFile(t, dir, "b.txt", "one\nTWO\nextra\n")

	code, out, _ := runCLI(t, "compare", "--summary", a, b)
	require.Equal(t, 1, code)
	require.Contains(t, out, "changed block")
	require.Contains(t, out, "inserted block")
}

func TestRun_CompareIgnoreCase(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "Foo\n")
	b := writeFile(t, dir, "b.txt", "foo\n")

	code, _, _ := runCLI(t, "compare", "--summary", a, b)
	require.Equal(t, 1, code)

	code, out, _ := runCLI(t, "compare", "--summary", "--ignore-case", a, b)
	require.Equal(t, 0, code)
	require.Equal(t, "identical\n", out)
}

func TestRun_CompareThreeWay(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "1\n2\n")
	b := writeFile(t, dir, "b.txt", "1\nX\n2\n")
	c := writeFile(t, dir, "c.txt", "1\nY\n2\n")

	code, out, _ := runCLI(t, "compare", "--width=90", a, b, c)
	require.Equal(t, 1, code)
	require.Contains(t, out, "X")
	require.Contains(t, out, "Y")
}

func TestRun_CompareConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "Foo\n")
	b := writeFile(t, dir, "b.txt", "foo\n")
	cfg := writeFile(t, dir, "config.toml", "[compare]\nignore_case = true\n")

	var out, errW bytes.Buffer
	t.Setenv("LINEALIGN_CONFIG", cfg)
	code := Run([]string{"linealign", "compare", "--summary", a, b}, &RunOptions{Out: &out, Err: &errW})
	require.Equal(t, 0, code)
	require.Equal(t, "identical\n", out.String())
}

func TestRun_CompareMissingFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "x\n")

	code, _, errOut := runCLI(t, "compare", a, filepath.Join(dir, "nope.txt"))
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "nope.txt")
}

func TestRun_CompareTooFewPaths(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "x\n")

	code, _, errOut := runCLI(t, "compare", a)
	require.Equal(t, 2, code)
	require.NotEmpty(t, errOut)
}

func TestRun_CompareBadRef(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "x\n")
	b := writeFile(t, dir, "b.txt", "x\n")

	code, _, errOut := runCLI(t, "compare", "--ref=5", a, b)
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "--ref")
}

func TestRun_UnknownFlag(t *testing.T) {
	code, _, errOut := runCLI(t, "compare", "--bogus")
	require.Equal(t, 2, code)
	require.NotEmpty(t, errOut)
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runCLI(t, "version")
	require.Equal(t, 0, code)
	require.Contains(t, out, Version)
}

func TestRun_Help(t *testing.T) {
	code, out, _ := runCLI(t, "--help")
	require.Equal(t, 0, code)
	require.True(t, strings.Contains(out, "compare") || strings.Contains(out, "Commands"))
}
