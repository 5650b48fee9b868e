package sqlxrepos_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/wittayakom/core/news"
	"github.com/trezcool/wittayakom/storage/database/sqlxrepos"
)

var newsCols = []string{
	"id", "title", "excerpt", "content", "category", "cover_image_url", "published", "is_pinned", "published_at",
	"sort_order", "views", "external_links", "created_at", "updated_at",
}

func TestNewsRepository_UpdateSortOrders(t *testing.T) {
	const (
		id1 = "0b6e4b3e-8c1f-4f0c-9d55-7f1a3e2b9c01"
		id2 = "0b6e4b3e-8c1f-4f0c-9d55-7f1a3e2b9c02"
		id3 = "0b6e4b3e-8c1f-4f0c-9d55-7f1a3e2b9c03"
	)
	updateQ := regexp.QuoteMeta("UPDATE news SET sort_order = $1 WHERE id = $2")
	ctx := context.Background()

	t.Run("commits every position", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := sqlxrepos.NewNewsRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(updateQ).WithArgs(0, id3).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(updateQ).WithArgs(1, id1).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(updateQ).WithArgs(2, id2).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.UpdateSortOrders(ctx, []string{id3, id1, id2}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := sqlxrepos.NewNewsRepository(db)
		boom := errors.New("connection reset by peer")

		mock.ExpectBegin()
		mock.ExpectExec(updateQ).WithArgs(0, id3).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(updateQ).WithArgs(1, id1).WillReturnError(boom)
		mock.ExpectRollback()

		err := repo.UpdateSortOrders(ctx, []string{id3, id1, id2})
		require.Error(t, err)
		assert.Equal(t, boom, errors.Cause(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on unknown id", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := sqlxrepos.NewNewsRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(updateQ).WithArgs(0, id3).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(updateQ).WithArgs(1, id1).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		assert.Equal(t, news.ErrNotFound, repo.UpdateSortOrders(ctx, []string{id3, id1, id2}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNewsRepository_GetArticle(t *testing.T) {
	db, mock := newMockDB(t)
	repo := sqlxrepos.NewNewsRepository(db)
	ctx := context.Background()

	const id = "0b6e4b3e-8c1f-4f0c-9d55-7f1a3e2b9c01"
	t0 := time.Date(2025, 3, 1, 2, 0, 0, 0, time.UTC)
	selectQ := regexp.QuoteMeta("FROM news WHERE id = $1")

	t.Run("published", func(t *testing.T) {
		rows := sqlmock.NewRows(newsCols).AddRow(
			id, "ประกาศรับสมัคร", "สรุป", "<p>เนื้อหา</p>", "ประกาศ", "https://cdn.example.com/a.jpg", true, true, t0,
			2, 40, []byte(`[{"title":"ใบสมัคร","url":"https://example.com/form.pdf"}]`), t0, t0,
		)
		mock.ExpectQuery(selectQ).WithArgs(id).WillReturnRows(rows)

		a, err := repo.GetArticle(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, news.Article{
			ID:            id,
			Title:         "ประกาศรับสมัคร",
			Excerpt:       "สรุป",
			Content:       "<p>เนื้อหา</p>",
			Category:      "ประกาศ",
			CoverImageURL: "https://cdn.example.com/a.jpg",
			Published:     true,
			IsPinned:      true,
			PublishedAt:   &t0,
			SortOrder:     2,
			Views:         40,
			ExternalLinks: []news.Link{{Title: "ใบสมัคร", URL: "https://example.com/form.pdf"}},
			CreatedAt:     t0,
			UpdatedAt:     t0,
		}, a)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("draft with nulls", func(t *testing.T) {
		rows := sqlmock.NewRows(newsCols).AddRow(
			id, "ร่าง", "สรุป", "", "ทั่วไป", nil, false, false, nil, 0, 0, []byte(`[]`), t0, t0,
		)
		mock.ExpectQuery(selectQ).WithArgs(id).WillReturnRows(rows)

		a, err := repo.GetArticle(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, a.CoverImageURL)
		assert.Nil(t, a.PublishedAt)
		assert.NotNil(t, a.ExternalLinks)
		assert.Empty(t, a.ExternalLinks)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(selectQ).WithArgs(id).WillReturnRows(sqlmock.NewRows(newsCols))

		_, err := repo.GetArticle(ctx, id)
		assert.Equal(t, news.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNewsRepository_IncrementViews(t *testing.T) {
	db, mock := newMockDB(t)
	repo := sqlxrepos.NewNewsRepository(db)

	const id = "0b6e4b3e-8c1f-4f0c-9d55-7f1a3e2b9c01"
	mock.ExpectExec(regexp.QuoteMeta("SELECT increment_news_view($1)")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.IncrementViews(context.Background(), id))
	assert.Equal(t, news.ErrNotFound, repo.IncrementViews(context.Background(), "nope"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
