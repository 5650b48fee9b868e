package sqlxrepos

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/wittayakom/core"
	"github.com/trezcool/wittayakom/core/news"
)

const newsColumns = `id, title, excerpt, content, category, cover_image_url, published, is_pinned, published_at,
	sort_order, views, external_links, created_at, updated_at`

type newsRow struct {
	ID            string         `db:"id"`
	Title         string         `db:"title"`
	Excerpt       string         `db:"excerpt"`
	Content       string         `db:"content"`
	Category      string         `db:"category"`
	CoverImageURL null.String    `db:"cover_image_url"`
	Published     bool           `db:"published"`
	IsPinned      bool           `db:"is_pinned"`
	PublishedAt   null.Time      `db:"published_at"`
	SortOrder     int            `db:"sort_order"`
	Views         int            `db:"views"`
	ExternalLinks types.JSONText `db:"external_links"`
	CreatedAt     null.Time      `db:"created_at"`
	UpdatedAt     null.Time      `db:"updated_at"`
}

type newsRepository struct {
	db *sqlx.DB
}

var _ news.Repository = (*newsRepository)(nil) // interface compliance check

func NewNewsRepository(db *sqlx.DB) news.Repository {
	return &newsRepository{db: db}
}

func (repo newsRepository) toRow(a news.Article) (newsRow, error) {
	links := a.ExternalLinks
	if links == nil {
		links = []news.Link{}
	}
	rawLinks, err := json.Marshal(links)
	if err != nil {
		return newsRow{}, errors.Wrap(err, "encoding external links")
	}
	return newsRow{
		ID:            a.ID,
		Title:         a.Title,
		Excerpt:       a.Excerpt,
		Content:       a.Content,
		Category:      a.Category,
		CoverImageURL: null.NewString(a.CoverImageURL, a.CoverImageURL != ""),
		Published:     a.Published,
		IsPinned:      a.IsPinned,
		PublishedAt:   null.TimeFromPtr(a.PublishedAt),
		SortOrder:     a.SortOrder,
		Views:         a.Views,
		ExternalLinks: rawLinks,
		CreatedAt:     null.NewTime(a.CreatedAt.UTC(), !a.CreatedAt.IsZero()),
		UpdatedAt:     null.NewTime(a.UpdatedAt.UTC(), !a.UpdatedAt.IsZero()),
	}, nil
}

func (repo newsRepository) fromRow(r newsRow) news.Article {
	a := news.Article{
		ID:            r.ID,
		Title:         r.Title,
		Excerpt:       r.Excerpt,
		Content:       r.Content,
		Category:      r.Category,
		CoverImageURL: r.CoverImageURL.String,
		Published:     r.Published,
		IsPinned:      r.IsPinned,
		SortOrder:     r.SortOrder,
		Views:         r.Views,
		ExternalLinks: []news.Link{},
		CreatedAt:     r.CreatedAt.Time.UTC(),
		UpdatedAt:     r.UpdatedAt.Time.UTC(),
	}
	if r.PublishedAt.Valid {
		t := r.PublishedAt.Time.UTC()
		a.PublishedAt = &t
	}
	if len(r.ExternalLinks) > 0 {
		// a malformed value is treated as no links
		_ = r.ExternalLinks.Unmarshal(&a.ExternalLinks)
	}
	return a
}

func (repo newsRepository) QueryArticles(ctx context.Context, filter *news.QueryFilter, ordering []core.DBOrdering, limit int) ([]news.Article, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter != nil {
		if filter.Search != "" {
			args = append(args, likePattern(filter.Search))
			where = append(where, fmt.Sprintf("(title ILIKE $%d OR excerpt ILIKE $%d)", len(args), len(args)))
		}
		if filter.Category != "" {
			args = append(args, filter.Category)
			where = append(where, fmt.Sprintf("category = $%d", len(args)))
		}
		if filter.Published != nil {
			args = append(args, *filter.Published)
			where = append(where, fmt.Sprintf("published = $%d", len(args)))
		}
	}

	q := "SELECT " + newsColumns + " FROM news"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	ordering = core.FilterOrderings(ordering, "sort_order", "is_pinned", "published_at", "created_at", "title", "views")
	q += orderBy(ordering, "created_at DESC", "id ASC")
	if limit > 0 {
		args = append(args, limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	var rows []newsRow
	if err := sqlx.SelectContext(ctx, repo.db, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying news")
	}
	articles := make([]news.Article, 0, len(rows))
	for _, r := range rows {
		articles = append(articles, repo.fromRow(r))
	}
	return articles, nil
}

func (repo newsRepository) GetArticle(ctx context.Context, id string) (news.Article, error) {
	if _, err := uuid.Parse(id); err != nil {
		return news.Article{}, news.ErrNotFound
	}
	var r newsRow
	if err := sqlx.GetContext(ctx, repo.db, &r, "SELECT "+newsColumns+" FROM news WHERE id = $1", id); err != nil {
		return news.Article{}, trapNoRowsErr(err, news.ErrNotFound, "finding news by ID")
	}
	return repo.fromRow(r), nil
}

func (repo newsRepository) CreateArticle(ctx context.Context, a news.Article) (news.Article, error) {
	a.ID = uuid.NewString()
	r, err := repo.toRow(a)
	if err != nil {
		return news.Article{}, err
	}
	q := `INSERT INTO news (` + newsColumns + `)
		VALUES (:id, :title, :excerpt, :content, :category, :cover_image_url, :published, :is_pinned, :published_at,
			:sort_order, :views, :external_links, :created_at, :updated_at)`
	if _, err = sqlx.NamedExecContext(ctx, repo.db, q, r); err != nil {
		return news.Article{}, errors.Wrap(err, "inserting news")
	}
	return repo.fromRow(r), nil
}

func (repo newsRepository) UpdateArticle(ctx context.Context, a news.Article) (news.Article, error) {
	r, err := repo.toRow(a)
	if err != nil {
		return news.Article{}, err
	}
	q := `UPDATE news SET title = :title, excerpt = :excerpt, content = :content, category = :category,
			cover_image_url = :cover_image_url, published = :published, is_pinned = :is_pinned,
			published_at = :published_at, external_links = :external_links, updated_at = :updated_at
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, repo.db, q, r)
	if err != nil {
		return news.Article{}, errors.Wrap(err, "updating news")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return news.Article{}, news.ErrNotFound
	}
	return repo.GetArticle(ctx, a.ID)
}

func (repo newsRepository) DeleteArticle(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return news.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, "DELETE FROM news WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting news")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return news.ErrNotFound
	}
	return nil
}

func (repo newsRepository) UpdateSortOrders(ctx context.Context, ids []string) error {
	return core.WithTx(ctx, repo.db, func(tx core.DBTransactor) error {
		for pos, id := range ids {
			res, err := tx.ExecContext(ctx, "UPDATE news SET sort_order = $1 WHERE id = $2", pos, id)
			if err != nil {
				return errors.Wrap(err, "updating news sort order")
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return news.ErrNotFound
			}
		}
		return nil
	})
}

func (repo newsRepository) IncrementViews(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return news.ErrNotFound
	}
	if _, err := repo.db.ExecContext(ctx, "SELECT increment_news_view($1)", id); err != nil {
		return errors.Wrap(err, "incrementing news views")
	}
	return nil
}

func (repo newsRepository) QueryCategories(ctx context.Context) ([]string, error) {
	var cats []string
	if err := sqlx.SelectContext(ctx, repo.db, &cats, "SELECT name FROM news_categories ORDER BY name"); err != nil {
		return nil, errors.Wrap(err, "querying news categories")
	}
	return cats, nil
}
