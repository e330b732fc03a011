package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "seo-content dev\n", out)
}

func TestScoreCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "Keyword,Volume,Keyword Difficulty,CPC (GBP)\n"+
		"trail shoes,900,40,1.2\n"+
		"waterproof trail shoes,300,35,0.9\n"+
		"obscure term,2,90,0.1\n")
	b := writeFile(t, dir, "b.csv", "Keyword;Volume;Keyword Difficulty;CPC (GBP)\n"+
		"running socks;50;20;0.5\n")

	t.Run("stdout", func(t *testing.T) {
		out, errOut, err := execute(t, "score", a, b)
		require.NoError(t, err)
		assert.Equal(t, "Keyword\nrunning socks\nwaterproof trail shoes\ntrail shoes\n", out)
		assert.Contains(t, errOut, "loaded 4, retained 3, selected 3")
	})

	t.Run("output file and capacity", func(t *testing.T) {
		dest := filepath.Join(dir, "top.csv")
		_, _, err := execute(t, "score", "--capacity", "1", "-o", dest, a)
		require.NoError(t, err)

		data, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, "Keyword\nwaterproof trail shoes\n", string(data))
	})
}

func TestScoreCommandErrors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := execute(t, "score")
	assert.Error(t, err, "at least one file is required")

	bad := writeFile(t, dir, "bad.csv", "Keyword,Volume\nx,1\n")
	_, _, err = execute(t, "score", bad)
	assert.ErrorContains(t, err, "Keyword Difficulty")

	_, _, err = execute(t, "score", filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)

	good := writeFile(t, dir, "good.csv", "Keyword,Volume,Keyword Difficulty,CPC (GBP)\nx,100,20,1\n")
	_, _, err = execute(t, "score", "--backfill", "sometimes", good)
	assert.Error(t, err)
}

func TestRunCommandRejectsUnknownStage(t *testing.T) {
	_, _, err := execute(t, "run", "launch", "--company", "Peak")
	assert.Error(t, err)
}
