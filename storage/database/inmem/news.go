package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/wittayakom/core"
	"github.com/trezcool/wittayakom/core/news"
)

type newsRepository struct {
	db *DB
}

var _ news.Repository = (*newsRepository)(nil)

func NewNewsRepository(db *DB) news.Repository {
	return &newsRepository{db: db}
}

func (repo *newsRepository) QueryArticles(_ context.Context, filter *news.QueryFilter, ordering []core.DBOrdering, limit int) ([]news.Article, error) {
	if repo.db.FailWith != nil {
		return nil, repo.db.FailWith
	}
	tbl := repo.db.news
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	articles := make([]news.Article, 0, len(tbl.table))
	for _, a := range tbl.table {
		if filter == nil || filter.Matches(*a) {
			articles = append(articles, copyArticle(*a))
		}
	}

	ordering = core.FilterOrderings(ordering, "sort_order", "is_pinned", "published_at", "created_at", "title", "views")
	sortBy(
		len(articles),
		ordering,
		func(i int, name string) interface{} { return articleField(articles[i], name) },
		func(i int) time.Time { return articles[i].CreatedAt },
		func(i int) string { return articles[i].ID },
		func(i, j int) { articles[i], articles[j] = articles[j], articles[i] },
	)

	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

func articleField(a news.Article, name string) interface{} {
	switch name {
	case "sort_order":
		return a.SortOrder
	case "is_pinned":
		return a.IsPinned
	case "published_at":
		return a.PublishedAt
	case "created_at":
		return a.CreatedAt
	case "title":
		return a.Title
	case "views":
		return a.Views
	}
	return nil
}

func (repo *newsRepository) GetArticle(_ context.Context, id string) (news.Article, error) {
	if repo.db.FailWith != nil {
		return news.Article{}, repo.db.FailWith
	}
	tbl := repo.db.news
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	if a, ok := tbl.table[id]; ok {
		return copyArticle(*a), nil
	}
	return news.Article{}, news.ErrNotFound
}

func (repo *newsRepository) CreateArticle(_ context.Context, a news.Article) (news.Article, error) {
	if repo.db.FailWith != nil {
		return news.Article{}, repo.db.FailWith
	}
	tbl := repo.db.news
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	a.ID = uuid.NewString()
	a = copyArticle(a)
	tbl.table[a.ID] = &a
	return copyArticle(a), nil
}

func (repo *newsRepository) UpdateArticle(_ context.Context, a news.Article) (news.Article, error) {
	if repo.db.FailWith != nil {
		return news.Article{}, repo.db.FailWith
	}
	tbl := repo.db.news
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	if _, ok := tbl.table[a.ID]; !ok {
		return news.Article{}, news.ErrNotFound
	}
	a = copyArticle(a)
	tbl.table[a.ID] = &a
	return copyArticle(a), nil
}

func (repo *newsRepository) DeleteArticle(_ context.Context, id string) error {
	if repo.db.FailWith != nil {
		return repo.db.FailWith
	}
	tbl := repo.db.news
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	if _, ok := tbl.table[id]; !ok {
		return news.ErrNotFound
	}
	delete(tbl.table, id)
	return nil
}

func (repo *newsRepository) UpdateSortOrders(_ context.Context, ids []string) error {
	if repo.db.FailWith != nil {
		return repo.db.FailWith
	}
	tbl := repo.db.news
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	// all or nothing
	for _, id := range ids {
		if _, ok := tbl.table[id]; !ok {
			return news.ErrNotFound
		}
	}
	for pos, id := range ids {
		tbl.table[id].SortOrder = pos
	}
	return nil
}

func (repo *newsRepository) IncrementViews(_ context.Context, id string) error {
	if repo.db.FailWith != nil {
		return repo.db.FailWith
	}
	tbl := repo.db.news
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	a, ok := tbl.table[id]
	if !ok {
		return news.ErrNotFound
	}
	a.Views++
	return nil
}

func (repo *newsRepository) QueryCategories(_ context.Context) ([]string, error) {
	if repo.db.FailWith != nil {
		return nil, repo.db.FailWith
	}
	tbl := repo.db.news
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	cats := make([]string, len(tbl.categories))
	copy(cats, tbl.categories)
	sort.Strings(cats)
	return cats, nil
}

// SetNewsCategories replaces the active news categories.
func (db *DB) SetNewsCategories(cats ...string) {
	db.news.mutex.Lock()
	defer db.news.mutex.Unlock()
	db.news.categories = append([]string(nil), cats...)
}

// SortOrders returns the sort order of every article, keyed by id.
func (db *DB) SortOrders() map[string]int {
	db.news.mutex.RLock()
	defer db.news.mutex.RUnlock()
	res := make(map[string]int, len(db.news.table))
	for id, a := range db.news.table {
		res[id] = a.SortOrder
	}
	return res
}

func copyArticle(a news.Article) news.Article {
	if a.PublishedAt != nil {
		t := *a.PublishedAt
		a.PublishedAt = &t
	}
	links := make([]news.Link, len(a.ExternalLinks))
	copy(links, a.ExternalLinks)
	a.ExternalLinks = links
	return a
}
