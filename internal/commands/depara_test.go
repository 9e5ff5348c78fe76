package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDePara_AddAndList(t *testing.T) {
	dir := workspace(t)

	out, err := runConcilia(t, dir, "depara", "add", "Cliente Alfa", "3001")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Added Cliente Alfa -> 3001")

	out, err = runConcilia(t, dir, "depara", "add", "CLIENTE ALFA", "9")
	require.Error(t, err)
	assert.Contains(t, out, "already mapped to 3001")

	out, err = runConcilia(t, dir, "depara", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Cliente Alfa\t3001")
	assert.Contains(t, out, "1 mapping(s)")
}

func TestClassify(t *testing.T) {
	dir := workspace(t)
	_, err := runConcilia(t, dir, "depara", "add", "Cliente Alfa", "3001")
	require.NoError(t, err)

	out, err := runConcilia(t, dir, "classify", "--entity", "lm", "cliente alfa", "qualquer coisa")
	require.NoError(t, err, out)
	assert.Contains(t, out, "cliente alfa -> 3001 (explicit)")
	assert.Contains(t, out, "qualquer coisa -> 14010 (fallback)")

	out, err = runConcilia(t, dir, "classify", "--entity", "imperio", "Tarifa bancária", "Cliente Alfa")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Tarifa bancária -> 4698 (keyword)")
	assert.Contains(t, out, "Cliente Alfa -> 14010 (fallback)", "imperio ignores the DE-PARA table")

	out, err = runConcilia(t, dir, "classify", "--entity", "acme", "x")
	require.Error(t, err)
	assert.Contains(t, out, "unknown entity")
}
