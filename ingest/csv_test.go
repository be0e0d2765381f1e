package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transacoes.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadTransactions(t *testing.T) {
	path := writeCSV(t, `id_transacao,data,funcionario,cargo,descricao,valor,categoria,departamento
TX-001,2023-05-12,Michael Scott,Regional Manager,Magic show supplies,499.99,Entertainment,Management
TX-002,2023-05-13,Kevin Malone,Accountant,Chili ingredients,85.50,Meals,Accounting
`)

	transactions, err := LoadTransactions(path)
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	tx := transactions[0]
	assert.Equal(t, "TX-001", tx.ID)
	assert.Equal(t, "Michael Scott", tx.Employee)
	assert.Equal(t, "Regional Manager", tx.Role)
	assert.Equal(t, "Magic show supplies", tx.Description)
	assert.InDelta(t, 499.99, tx.Amount, 0.001)
	assert.Equal(t, "Entertainment", tx.Category)
	assert.Equal(t, "Management", tx.Department)
	assert.Equal(t, 2023, tx.Date.Year())
	assert.Equal(t, 12, tx.Date.Day())
}

func TestLoadTransactionsMissingColumn(t *testing.T) {
	path := writeCSV(t, `id_transacao,data
TX-001,2023-05-12
`)

	_, err := LoadTransactions(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "funcionario")
}

func TestLoadTransactionsBadAmount(t *testing.T) {
	path := writeCSV(t, `id_transacao,data,funcionario,valor
TX-001,2023-05-12,Michael Scott,abc
`)

	_, err := LoadTransactions(path)
	require.Error(t, err)
}

func TestLoadTransactionsEmptyFile(t *testing.T) {
	path := writeCSV(t, "id_transacao,data,funcionario,valor\n")

	_, err := LoadTransactions(path)
	require.Error(t, err)
}

func TestLoadTransactionsMissingFile(t *testing.T) {
	_, err := LoadTransactions(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
