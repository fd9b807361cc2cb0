package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI against dir and returns its standard output.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	addContent, addStdin = "", false
	editContent, editStdin = "", false
	listJSON, readJSON = false, false
	watchPattern = ""
	require.NoError(t, rootCmd.PersistentFlags().Set("keep-files", "false"))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(append(args, "--data-dir", dir))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI_AddListRead(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "add", "groceries", "--content", "milk")
	require.NoError(t, err)
	assert.Equal(t, "groceries\n", out)

	out, err = run(t, dir, "list")
	require.NoError(t, err)
	assert.Equal(t, "info (read-only)\nNew entry...\ngroceries\n", out)

	out, err = run(t, dir, "read", "groceries")
	require.NoError(t, err)
	assert.Equal(t, "milk", out)

	out, err = run(t, dir, "add", "groceries")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "groceries ("), "got %q", out)

	_, err = run(t, dir, "read", "missing")
	assert.Error(t, err)
}

func TestCLI_EditRenameDelete(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "add", "a", "--content", "one")
	require.NoError(t, err)

	_, err = run(t, dir, "edit", "a", "--content", "two")
	require.NoError(t, err)
	out, err := run(t, dir, "read", "a")
	require.NoError(t, err)
	assert.Equal(t, "two", out)

	_, err = run(t, dir, "rename", "a", "b")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "a.xml"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "b.xml"))
	assert.NoError(t, err)

	_, err = run(t, dir, "delete", "b")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "b.xml"))
	assert.True(t, os.IsNotExist(err))

	_, err = run(t, dir, "add", "c")
	require.NoError(t, err)
	_, err = run(t, dir, "delete", "info")
	assert.Error(t, err, "the help entry cannot be deleted")
	_, err = run(t, dir, "delete", "c")
	require.NoError(t, err)

	_, err = run(t, dir, "delete", "New entry...")
	assert.Error(t, err, "the last note cannot be deleted")
}

func TestCLI_Import(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(t.TempDir(), "outside.md")
	require.NoError(t, os.WriteFile(src, []byte("---\nname: recipe\n---\nflour"), 0644))

	out, err := run(t, dir, "import", src)
	require.NoError(t, err)
	assert.Equal(t, "recipe\n", out)

	out, err = run(t, dir, "read", "recipe")
	require.NoError(t, err)
	assert.Equal(t, "flour", out)
}

func TestCLI_Config(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "config", "set", "a=1", "b=x=y")
	require.NoError(t, err)

	out, err := run(t, dir, "config", "get", "b")
	require.NoError(t, err)
	assert.Equal(t, "x=y\n", out)

	out, err = run(t, dir, "config", "get", "missing")
	require.NoError(t, err)
	assert.Equal(t, "\n", out)

	_, err = run(t, dir, "config", "rename", "a", "c")
	require.NoError(t, err)
	_, err = run(t, dir, "config", "rename", "a", "d")
	assert.Error(t, err)

	out, err = run(t, dir, "config", "list")
	require.NoError(t, err)
	assert.Equal(t, "b=x=y\nc=1\n", out)

	_, err = run(t, dir, "config", "set", "novalue")
	assert.Error(t, err)
}

func TestCLI_Version(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "scribe version "), "got %q", out)
}
