package gitops

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthor = Author{Name: "Concilia Test", Email: "test@example.com"}

func gitLog(t *testing.T, dir, format string) string {
	t.Helper()
	cmd := exec.Command("git", "log", "--format="+format, "-1")
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return string(out)
}

func TestIsRepo(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(dir))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")

	sub := filepath.Join(dir, "saida")
	require.NoError(t, os.Mkdir(sub, 0o755))
	assert.True(t, IsRepo(sub), "subdirectories belong to the repo")
}

func TestCommitFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	report := filepath.Join(dir, "conciliacao_caixa.xlsx")
	require.NoError(t, os.WriteFile(report, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "untouched.txt"), []byte("y"), 0o644))

	msg := CommitMessage("lm", "run-1")
	assert.Equal(t, "concilia: lm run-1", msg)

	hash, err := CommitFiles(dir, []string{report}, msg, testAuthor)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	assert.Contains(t, gitLog(t, dir, "%s"), "concilia: lm run-1")
	assert.Contains(t, gitLog(t, dir, "%an <%ae>"), "Concilia Test <test@example.com>")

	files := exec.Command("git", "show", "--name-only", "--format=", "HEAD")
	files.Dir = dir
	out, err := files.Output()
	require.NoError(t, err)
	assert.Equal(t, "conciliacao_caixa.xlsx\n", string(out), "only the named files are committed")
}

func TestCommitFiles_NoChanges(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	_, err := CommitFiles(dir, []string{path}, "first", testAuthor)
	require.NoError(t, err)

	hash, err := CommitFiles(dir, []string{path}, "second", testAuthor)
	require.NoError(t, err)
	assert.Empty(t, hash)

	hash, err = CommitFiles(dir, nil, "third", testAuthor)
	require.NoError(t, err)
	assert.Empty(t, hash)
}
