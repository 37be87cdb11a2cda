package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom_EmptyRows(t *testing.T) {
	n, err := CopyFrom(context.TODO(), nil, "companies", []string{"a", "b"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCopyFrom_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"companies"}, []string{"cnpj_basico", "razao_social"}).WillReturnResult(3)

	rows := [][]any{{"11222333", "ACME LTDA"}, {"44555666", "BETA SA"}, {"77888999", "GAMA ME"}}
	n, err := CopyFrom(context.Background(), mock, "companies", []string{"cnpj_basico", "razao_social"}, rows)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"partners"}, []string{"cnpj_basico"}).WillReturnError(fmt.Errorf("copy failed"))

	rows := [][]any{{"11222333"}}
	_, err = CopyFrom(context.Background(), mock, "partners", []string{"cnpj_basico"}, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO partners")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_EmptyRows(t *testing.T) {
	n, err := BulkUpsert(context.TODO(), nil, UpsertConfig{
		Table:        "companies",
		Columns:      []string{"cnpj_basico", "razao_social"},
		ConflictKeys: []string{"cnpj_basico"},
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBulkUpsert_NoColumns(t *testing.T) {
	_, err := BulkUpsert(context.TODO(), nil, UpsertConfig{
		Table:        "companies",
		ConflictKeys: []string{"cnpj_basico"},
	}, [][]any{{"11222333"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns specified")
}

func TestBulkUpsert_NoConflictKeys(t *testing.T) {
	_, err := BulkUpsert(context.TODO(), nil, UpsertConfig{
		Table:   "companies",
		Columns: []string{"cnpj_basico", "razao_social"},
	}, [][]any{{"11222333", "ACME"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conflict keys specified")
}

func TestQuoteAndJoin(t *testing.T) {
	got := quoteAndJoin([]string{"cnpj_basico", "razao_social"})
	assert.Equal(t, `"cnpj_basico", "razao_social"`, got)
}
