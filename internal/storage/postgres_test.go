package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/lightbox-fetcher/internal/domain"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresStoreWithDB(mock), mock
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS image_fetches").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveResult(t *testing.T) {
	store, mock := newMockStore(t)
	fetchedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	res := &domain.FetchResult{
		Link:      "pokedex/pikachu",
		PageURL:   "https://home.example/pokedex/pikachu",
		ImageURL:  "https://cdn.example/img/25.png",
		FileName:  "25.png",
		Bytes:     512,
		Outcome:   domain.OutcomeSaved,
		FetchedAt: fetchedAt,
	}

	mock.ExpectExec("INSERT INTO image_fetches").
		WithArgs(res.Link, res.PageURL, res.ImageURL, res.FileName, "saved", "", int64(512), fetchedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.SaveResult(context.Background(), res))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveResult_Error(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO image_fetches").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection lost"))

	err := store.SaveResult(context.Background(), &domain.FetchResult{Link: "p", Outcome: domain.OutcomeReferenceNotFound})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save result for p")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetFetchStatus(t *testing.T) {
	store, mock := newMockStore(t)
	updated := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{"link", "image_url", "file_name", "outcome", "fail_reason", "bytes", "updated_at"}).
		AddRow("pokedex/pikachu", "https://cdn.example/img/25.png", "25.png", "saved", "", int64(512), updated)
	mock.ExpectQuery("SELECT (.+) FROM image_fetches WHERE link =").
		WithArgs("pokedex/pikachu").
		WillReturnRows(rows)

	status, err := store.GetFetchStatus(context.Background(), "pokedex/pikachu")
	require.NoError(t, err)
	assert.Equal(t, "pokedex/pikachu", status.Link)
	assert.Equal(t, "25.png", status.FileName)
	assert.Equal(t, domain.OutcomeSaved, status.Outcome)
	assert.EqualValues(t, 512, status.Bytes)
	assert.Equal(t, updated, status.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetFetchStatus_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM image_fetches WHERE link =").
		WithArgs("unknown").
		WillReturnError(pgx.ErrNoRows)

	status, err := store.GetFetchStatus(context.Background(), "unknown")
	assert.Nil(t, status)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
