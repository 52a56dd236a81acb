package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nico-AP/datadonation-wi/domain/model"
)

func TestAccountRepository_NextUnscraped(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "scraper_tiktokuser_b" WHERE scrape_date IS NULL AND username <> '' AND username <> \$1 ORDER BY date_added DESC LIMIT`).
		WithArgs(model.StubUsername, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "author_id", "username"}).
			AddRow(1, 4411, "partei_a").
			AddRow(2, 4412, "partei_b"))

	users, err := repo.NextUnscraped(context.Background(), 2)

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "partei_a", users[0].Username)
	assert.Equal(t, int64(4412), users[1].AuthorID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_MarkFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectExec(`UPDATE "scraper_tiktokuser_b" SET .* WHERE author_id = \$\d+ AND scrape_success = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkFailure(context.Background(), 4411, "profile payload empty")

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Stats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`SELECT .*FILTER \(WHERE scrape_success\) AS success FROM "scraper_tiktokuser_b"`).
		WillReturnRows(sqlmock.NewRows([]string{"total", "attempted", "success"}).AddRow(12, 5, 4))

	stats, err := repo.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.Total)
	assert.Equal(t, int64(5), stats.Attempted)
	assert.Equal(t, int64(4), stats.Success)
	require.NoError(t, mock.ExpectationsWereMet())
}
