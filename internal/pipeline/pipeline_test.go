package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/concilia/internal/gitops"
	"github.com/cleared-dev/concilia/internal/ledger"
	"github.com/cleared-dev/concilia/internal/report"
	"github.com/cleared-dev/concilia/internal/runlog"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newPipeline() *Pipeline {
	profiles := ledger.DefaultProfiles()
	return New(ledger.DefaultRegistry(profiles, ledger.Knowledge{}), profiles)
}

const lmLedger = `Data;Valor;Tipo;Cliente/Fornecedor;Banco
05/01/2024;100,00;C;Cliente Alfa;Caixa
05/01/2024;40,00;D;Fornecedor Azul;Caixa
06/01/2024;10,00;D;Tarifa;Banco Itaú Matriz
`

const caixaStatement = `Data;Histórico;Valor
05/01/2024;PIX RECEBIDO;100,00
05/01/2024;PAGAMENTO;-30,00
`

func TestRun_PerBank(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "saida")
	writeFile(t, in, "relatorio_lm.csv", lmLedger)
	writeFile(t, in, "extrato_caixa.csv", caixaStatement)
	writeFile(t, in, "extrato_nubank.csv", caixaStatement)
	writeFile(t, in, "notas.txt", "ignored")

	sum, err := newPipeline().Run(context.Background(), Options{Entity: "LM", Inputs: []string{in}, OutputDir: out})
	require.NoError(t, err)

	assert.Equal(t, "lm", sum.Entity)
	assert.Equal(t, ledger.ModePerBank, sum.Mode)
	assert.Len(t, sum.Ledgers, 1)
	assert.Len(t, sum.Statements, 2)
	assert.Equal(t, 3, sum.Entries)
	assert.Equal(t, 3, sum.Movements)
	assert.Equal(t, 2, sum.Rows)
	assert.Equal(t, 1, sum.Totals.OK)
	assert.Equal(t, 2, sum.Totals.NeedsReview)

	require.Len(t, sum.Failures, 1)
	assert.Equal(t, runlog.StepStatement, sum.Failures[0].Step)
	assert.Equal(t, filepath.Join(in, "extrato_nubank.csv"), sum.Failures[0].Path)

	assert.ElementsMatch(t, []string{
		filepath.Join(out, "conciliacao_caixa.xlsx"),
		filepath.Join(out, "conciliacao_itau_matriz.xlsx"),
		filepath.Join(out, report.EntriesXLSX),
		filepath.Join(out, report.EntriesTXT),
	}, sum.Outputs)

	f, err := excelize.OpenFile(filepath.Join(out, "conciliacao_itau_matriz.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Saidas"}, f.GetSheetList(), "no credit rows for this bank")

	entries, err := runlog.Read(out)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	var failed int
	for _, e := range entries {
		assert.Equal(t, sum.RunID, e.RunID)
		if e.Status == runlog.StatusFailed {
			failed++
		}
	}
	assert.Equal(t, 1, failed)

	_, err = os.Stat(filepath.Join(in, "relatorio_lm.csv"))
	assert.NoError(t, err, "inputs stay in place without archive")
}

func TestRun_AggregateWithTransferFilterAndArchive(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeFile(t, in, "mecflu_itau.csv", "datamovimento;valorentrada;valorsaida;fornecedor_observacao\n05/01/2024;;100,00;tarifa\n")
	writeFile(t, in, "extrato_itau.csv", `Data;Historico;Valor
05/01/2024;TARIFA;-100,00
05/01/2024;TED ENVIADA;-500,00
05/01/2024;TED RECEBIDA;500,00
`)

	sum, err := newPipeline().Run(context.Background(), Options{Entity: "mecflu", Inputs: []string{in}, OutputDir: out, Archive: true})
	require.NoError(t, err)
	require.Empty(t, sum.Failures)

	assert.Equal(t, ledger.ModeAggregate, sum.Mode)
	assert.Equal(t, 1, sum.Rows, "the transfer pair is removed")
	assert.Equal(t, 1, sum.Totals.OK)
	assert.Zero(t, sum.Totals.NeedsReview)
	assert.Contains(t, sum.Outputs, filepath.Join(out, report.ConsolidatedXLSX))

	assert.FileExists(t, filepath.Join(in, ProcessedDir, "mecflu_itau.csv"))
	assert.FileExists(t, filepath.Join(in, ProcessedDir, "extrato_itau.csv"))
	assert.NoFileExists(t, filepath.Join(in, "mecflu_itau.csv"))
}

func TestRun_ModeOverride(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeFile(t, in, "relatorio_lm.csv", lmLedger)

	sum, err := newPipeline().Run(context.Background(), Options{Entity: "lm", Inputs: []string{in}, OutputDir: out, Mode: ledger.ModeAggregate})
	require.NoError(t, err)
	assert.Contains(t, sum.Outputs, filepath.Join(out, report.ConsolidatedXLSX))
	assert.NoFileExists(t, filepath.Join(out, "conciliacao_caixa.xlsx"))
}

func TestRun_CommitsOutputs(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	require.NoError(t, gitops.Init(out))
	writeFile(t, in, "relatorio_lm.csv", lmLedger)

	sum, err := newPipeline().Run(context.Background(), Options{
		Entity: "lm", Inputs: []string{in}, OutputDir: out,
		Commit: true, Author: gitops.Author{Name: "Test", Email: "test@example.com"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sum.Commit)
	assert.Empty(t, sum.Failures)
}

func TestRun_Errors(t *testing.T) {
	p := newPipeline()

	_, err := p.Run(context.Background(), Options{Entity: "acme", Inputs: []string{t.TempDir()}, OutputDir: t.TempDir()})
	assert.ErrorIs(t, err, ledger.ErrUnknownEntity)

	_, err = p.Run(context.Background(), Options{Entity: "lm", Inputs: []string{t.TempDir()}, OutputDir: t.TempDir()})
	assert.ErrorIs(t, err, ErrNoInputs)

	_, err = p.Run(context.Background(), Options{Entity: "lm", Inputs: []string{filepath.Join(t.TempDir(), "missing")}, OutputDir: t.TempDir()})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_Cancelled(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeFile(t, in, "relatorio_lm.csv", lmLedger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newPipeline().Run(ctx, Options{Entity: "lm", Inputs: []string{in}, OutputDir: out})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.NoFileExists(t, filepath.Join(out, report.EntriesXLSX))

	entries, err := runlog.Read(out)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, runlog.StatusFailed, entries[len(entries)-1].Status)
}

func TestFileError(t *testing.T) {
	inner := errors.New("boom")
	fe := &FileError{Path: "/in/extrato_x.pdf", Step: runlog.StepStatement, Err: inner}
	assert.Equal(t, "statement extrato_x.pdf: boom", fe.Error())
	assert.ErrorIs(t, fe, inner)
}

func TestLoadKnowledge(t *testing.T) {
	dir := t.TempDir()
	depara := writeFile(t, dir, "depara.csv", "nome;codigo\nCliente Alfa;3001\n")

	k := LoadKnowledge(context.Background(), depara, filepath.Join(dir, "missing.xlsx"))
	require.Len(t, k.DePara, 1)
	assert.Equal(t, "3001", k.DePara[0].Code)
	assert.Empty(t, k.Suppliers)
}
