package reconcile

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/concilia/internal/model"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func txn(d int, amount string, dir model.Direction, bank string) model.Transaction {
	return model.Transaction{Date: day(d), Amount: decimal.RequireFromString(amount), Direction: dir, Bank: bank}
}

func TestReconcile_Match(t *testing.T) {
	ledger := []model.Transaction{txn(5, "100", model.Debit, "")}
	stmts := []model.Transaction{txn(5, "100", model.Debit, "x")}

	res := Reconcile(ledger, stmts, Options{Direction: model.Debit, Mode: ModePerBank, Bank: "x"})

	require.Len(t, res.Rows, 1)
	row := res.Rows[0]
	assert.Equal(t, day(5), row.Date)
	assert.Equal(t, "x", row.Bank)
	assert.True(t, row.Difference.IsZero())
	assert.Equal(t, model.StatusOK, row.Status)
}

func TestReconcile_Mismatch(t *testing.T) {
	ledger := []model.Transaction{txn(5, "60", model.Debit, ""), txn(5, "40", model.Debit, "")}
	stmts := []model.Transaction{txn(5, "80", model.Debit, "x")}

	res := Reconcile(ledger, stmts, Options{Direction: model.Debit})

	require.Len(t, res.Rows, 1)
	assert.Equal(t, "20.00", res.Rows[0].Difference.StringFixed(2))
	assert.Equal(t, model.StatusNeedsReview, res.Rows[0].Status)
}

func TestReconcile_ToleranceAndRounding(t *testing.T) {
	ledger := []model.Transaction{txn(5, "10.004", model.Credit, "")}
	stmts := []model.Transaction{txn(5, "10", model.Credit, "x")}

	res := Reconcile(ledger, stmts, Options{Direction: model.Credit})
	require.Len(t, res.Rows, 1)
	assert.Equal(t, model.StatusOK, res.Rows[0].Status)
}

func TestReconcile_OuterJoinSortedAndFiltered(t *testing.T) {
	ledger := []model.Transaction{
		txn(7, "30", model.Credit, ""),
		txn(5, "10", model.Credit, ""),
		txn(5, "99", model.Debit, ""),
		{Amount: decimal.NewFromInt(5), Direction: model.Credit}, // undated
	}
	stmts := []model.Transaction{
		txn(6, "20", model.Credit, "x"),
		txn(5, "10", model.Credit, "x"),
		txn(5, "1000", model.Credit, "other"),
		txn(8, "0", model.Credit, "x"),
	}

	res := Reconcile(ledger, stmts, Options{Direction: model.Credit, Mode: ModePerBank, Bank: "x"})

	require.Len(t, res.Rows, 3)
	assert.Equal(t, []time.Time{day(5), day(6), day(7)}, []time.Time{res.Rows[0].Date, res.Rows[1].Date, res.Rows[2].Date})

	assert.Equal(t, model.StatusOK, res.Rows[0].Status)
	assert.True(t, res.Rows[1].LedgerTotal.IsZero())
	assert.Equal(t, "-20.00", res.Rows[1].Difference.StringFixed(2))
	assert.True(t, res.Rows[2].StatementTotal.IsZero())
	assert.Equal(t, "30.00", res.Rows[2].Difference.StringFixed(2))
}

func TestReconcile_OneSideEmpty(t *testing.T) {
	res := Reconcile(nil, []model.Transaction{txn(5, "10", model.Debit, "x")}, Options{Direction: model.Debit})
	require.Len(t, res.Rows, 1)
	assert.Equal(t, model.StatusNeedsReview, res.Rows[0].Status)

	assert.True(t, Reconcile(nil, nil, Options{Direction: model.Debit}).Empty())
}

func TestReconcile_Aggregate(t *testing.T) {
	ledger := []model.Transaction{txn(5, "150", model.Credit, "")}
	stmts := []model.Transaction{
		txn(5, "100", model.Credit, "itau"),
		txn(5, "50", model.Credit, "caixa"),
		txn(6, "25", model.Credit, "caixa"),
	}

	res := Reconcile(ledger, stmts, Options{Direction: model.Credit, Mode: ModeAggregate, Bank: "ignored"})

	assert.Equal(t, []string{"caixa", "itau"}, res.Banks)
	require.Len(t, res.Rows, 2)
	first := res.Rows[0]
	assert.Empty(t, first.Bank)
	assert.Equal(t, "100", first.StatementTotals["itau"].String())
	assert.Equal(t, "50", first.StatementTotals["caixa"].String())
	assert.Equal(t, "150", first.StatementTotal.String())
	assert.Equal(t, model.StatusOK, first.Status)

	second := res.Rows[1]
	assert.True(t, second.StatementTotals["itau"].IsZero())
	assert.Equal(t, "25", second.StatementTotals["caixa"].String())
	assert.Equal(t, model.StatusNeedsReview, second.Status)
}

func TestReconcile_OrderIndependent(t *testing.T) {
	ledger := []model.Transaction{
		txn(5, "10.10", model.Credit, ""), txn(5, "0.20", model.Credit, ""),
		txn(6, "3.33", model.Credit, ""), txn(9, "7", model.Credit, ""),
	}
	stmts := []model.Transaction{
		txn(5, "10.30", model.Credit, "a"), txn(6, "1.11", model.Credit, "b"),
		txn(6, "2.22", model.Credit, "a"), txn(8, "4", model.Credit, "b"),
	}
	opts := Options{Direction: model.Credit, Mode: ModeAggregate}
	want := Reconcile(ledger, stmts, opts)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		l := append([]model.Transaction(nil), ledger...)
		s := append([]model.Transaction(nil), stmts...)
		rng.Shuffle(len(l), func(a, b int) { l[a], l[b] = l[b], l[a] })
		rng.Shuffle(len(s), func(a, b int) { s[a], s[b] = s[b], s[a] })

		got := Reconcile(l, s, opts)
		require.Len(t, got.Rows, len(want.Rows))
		for j := range want.Rows {
			assert.Equal(t, want.Rows[j].Date, got.Rows[j].Date)
			assert.True(t, want.Rows[j].Difference.Equal(got.Rows[j].Difference))
			assert.Equal(t, want.Rows[j].Status, got.Rows[j].Status)
		}
	}
}

func TestPairAndSummarize(t *testing.T) {
	ledger := []model.Transaction{txn(5, "10", model.Credit, ""), txn(5, "5", model.Debit, "")}
	stmts := []model.Transaction{txn(5, "10", model.Credit, "x"), txn(5, "4", model.Debit, "x")}

	entradas, saidas := Pair(ledger, stmts, Options{Mode: ModePerBank, Bank: "x"})
	assert.Equal(t, model.Credit, entradas.Direction)
	assert.Equal(t, model.Debit, saidas.Direction)

	totals := Summarize(entradas, saidas)
	assert.Equal(t, Totals{OK: 1, NeedsReview: 1}, totals)
}

func TestRemoveTransfers(t *testing.T) {
	pair := []model.Transaction{txn(5, "50", model.Credit, "a"), txn(5, "50.00", model.Debit, "b")}
	assert.Empty(t, RemoveTransfers(pair))

	lone := []model.Transaction{txn(5, "50", model.Credit, "a")}
	assert.Len(t, RemoveTransfers(lone), 1)

	mixed := []model.Transaction{
		txn(5, "50", model.Credit, "a"),
		txn(5, "50", model.Credit, "a"),
		txn(5, "50", model.Debit, "b"),
		txn(6, "50", model.Debit, "b"),
		txn(5, "51", model.Debit, "b"),
	}
	got := RemoveTransfers(mixed)
	require.Len(t, got, 2, "every row sharing a transfer key is removed")
	assert.Equal(t, day(6), got[0].Date)
	assert.Equal(t, "51", got[1].Amount.String())
}
