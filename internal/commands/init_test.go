package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_CreatesWorkspace(t *testing.T) {
	dir := workspace(t)

	for _, d := range []string{"config", "entrada", "saida"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
	assert.FileExists(t, filepath.Join(dir, "config", "DE-PARA.xlsx"))
	assert.FileExists(t, filepath.Join(dir, "config", "Base_Fornecedores.xlsx"))

	data, err := os.ReadFile(filepath.Join(dir, "concilia.yaml"))
	require.NoError(t, err)
	contents := string(data)
	assert.Contains(t, contents, "output: saida")
	assert.Contains(t, contents, "imperio:")
	assert.Contains(t, contents, "layout: bank_column")
	assert.NoDirExists(t, filepath.Join(dir, ".git"))
}

func TestInit_RefusesToOverwrite(t *testing.T) {
	dir := workspace(t)

	out, err := runConcilia(t, dir, "init", dir)
	require.Error(t, err)
	assert.Contains(t, out, "already exists")

	_, err = runConcilia(t, dir, "init", dir, "--force")
	require.NoError(t, err)
}

func TestInit_GitRepo(t *testing.T) {
	dir := workspace(t, "--git")

	_, err := os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git should exist")

	log := exec.Command("git", "log", "--format=%s|%an <%ae>", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "init: concilia workspace|Concilia <concilia@localhost>")

	data, err := os.ReadFile(filepath.Join(dir, "concilia.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "auto_commit: true")
}

func TestEntities(t *testing.T) {
	out, err := runConcilia(t, workspace(t), "entities")
	require.NoError(t, err)

	assert.Contains(t, out, "ENTITY")
	assert.Regexp(t, `imperio\s+movement\s+per_bank\s+inverted`, out)
	assert.Regexp(t, `lm\s+bank_column\s+per_bank\s+standard`, out)
	assert.Regexp(t, `mecflu\s+movement\s+aggregate\s+standard`, out)
}

func TestEntities_WithoutConfigUsesDefaults(t *testing.T) {
	out, err := runConcilia(t, t.TempDir(), "entities")
	require.NoError(t, err)
	assert.Contains(t, out, "mecflu")
}

func TestExplicitMissingConfigFails(t *testing.T) {
	dir := t.TempDir()
	out, err := runConcilia(t, dir, "entities", "--config", filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, out, "reading config")
}
