package commands_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatement_PrintsAndExports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "extrato.csv"), caixaStatement)

	out, err := runConcilia(t, dir, "statement", "--format", "planilha", "--bank", "caixa", "--xlsx", "rows.xlsx", "extrato.csv")
	require.NoError(t, err, out)

	assert.Regexp(t, `05/01/2024  C\s+100\.00  PIX RECEBIDO`, out)
	assert.Regexp(t, `05/01/2024  D\s+40\.00  PAGAMENTO`, out)
	assert.Contains(t, out, "2 row(s), net 60.00")
	assert.FileExists(t, filepath.Join(dir, "rows.xlsx"))
}

func TestStatement_UnknownFormat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "extrato.csv"), caixaStatement)

	out, err := runConcilia(t, dir, "statement", "--format", "nubank", "extrato.csv")
	require.Error(t, err)
	assert.Contains(t, out, "unknown statement format")
}

func TestStatement_ListsFormatsInHelp(t *testing.T) {
	out, err := runConcilia(t, t.TempDir(), "statement", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "banco_brasil, caixa, itau, itau_tabela, mercado_pago, planilha, santander, sicredi")
}
