package news

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/wittayakom/core"
)

var (
	// errors
	ErrNotFound        = errors.New("news article not found")
	ErrInvalidOrdering = errors.New("ids must list every article exactly once")

	coverFolder = "news"

	// AdminOrdering is the order of the admin list and of reordering.
	AdminOrdering = []core.DBOrdering{{Field: "sort_order", Ascending: true}}
	// PublicOrdering puts pinned articles first.
	PublicOrdering = []core.DBOrdering{{Field: "is_pinned", Ascending: false}, {Field: "sort_order", Ascending: true}}

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		QueryArticles(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, limit int) ([]Article, error)
		GetArticle(ctx context.Context, id string) (Article, error)
		CreateArticle(ctx context.Context, a Article) (Article, error)
		UpdateArticle(ctx context.Context, a Article) (Article, error)
		DeleteArticle(ctx context.Context, id string) error
		// UpdateSortOrders sets the sort order of ids[i] to i. Either every row is updated or none is.
		UpdateSortOrders(ctx context.Context, ids []string) error
		IncrementViews(ctx context.Context, id string) error
		QueryCategories(ctx context.Context) ([]string, error)
	}

	Service interface {
		Query(ctx context.Context, filter QueryFilter) ([]Article, error)
		QueryPublished(ctx context.Context, filter QueryFilter, limit int) ([]Article, error)
		Get(ctx context.Context, id string) (Article, error)
		GetPublished(ctx context.Context, id string) (Article, error)
		Categories(ctx context.Context) ([]string, error)
		Create(ctx context.Context, form Form) (Article, error)
		Update(ctx context.Context, id string, form Form) (Article, error)
		TogglePublish(ctx context.Context, id string) (Article, error)
		Reorder(ctx context.Context, ids []string) ([]Article, error)
		Move(ctx context.Context, id string, position int) (articles []Article, moved bool, err error)
		Delete(ctx context.Context, id string) error
		IncrementViews(ctx context.Context, id string) error
		UploadCover(ctx context.Context, filename string, r io.Reader) (string, error)
	}

	service struct {
		repo   Repository
		images core.ImageStore
		logger core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, images core.ImageStore, logger core.Logger) Service {
	return &service{repo: repo, images: images, logger: logger}
}

func (svc *service) Query(ctx context.Context, filter QueryFilter) ([]Article, error) {
	filter.Clean()
	return svc.repo.QueryArticles(ctx, &filter, AdminOrdering, 0)
}

func (svc *service) QueryPublished(ctx context.Context, filter QueryFilter, limit int) ([]Article, error) {
	filter.Clean()
	published := true
	filter.Published = &published
	return svc.repo.QueryArticles(ctx, &filter, PublicOrdering, limit)
}

func (svc *service) Get(ctx context.Context, id string) (Article, error) {
	return svc.repo.GetArticle(ctx, id)
}

func (svc *service) GetPublished(ctx context.Context, id string) (Article, error) {
	a, err := svc.repo.GetArticle(ctx, id)
	if err != nil {
		return Article{}, err
	}
	if !a.Published {
		return Article{}, ErrNotFound
	}
	return a, nil
}

func (svc *service) Categories(ctx context.Context) ([]string, error) {
	return svc.repo.QueryCategories(ctx)
}

func (svc *service) Create(ctx context.Context, form Form) (Article, error) {
	now := nowFunc().UTC()
	a := Article{
		Title:         form.Title,
		Excerpt:       form.Excerpt,
		Content:       form.Content,
		Category:      form.Category,
		CoverImageURL: form.CoverImageURL,
		Published:     form.Published,
		IsPinned:      form.IsPinned,
		SortOrder:     0,
		Views:         0,
		ExternalLinks: form.ExternalLinks,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if a.Published {
		a.PublishedAt = &now
	}
	return svc.repo.CreateArticle(ctx, a)
}

// Update rewrites every editable field. Saving as published stamps the publish time,
// unpublishing never clears it.
func (svc *service) Update(ctx context.Context, id string, form Form) (Article, error) {
	a, err := svc.repo.GetArticle(ctx, id)
	if err != nil {
		return Article{}, err
	}
	now := nowFunc().UTC()

	if form.Published {
		a.PublishedAt = &now
	}
	a.Title = form.Title
	a.Excerpt = form.Excerpt
	a.Content = form.Content
	a.Category = form.Category
	a.CoverImageURL = form.CoverImageURL
	a.Published = form.Published
	a.IsPinned = form.IsPinned
	a.ExternalLinks = form.ExternalLinks
	a.UpdatedAt = now

	return svc.repo.UpdateArticle(ctx, a)
}

// TogglePublish flips the published flag. The publish time is only stamped the first time.
func (svc *service) TogglePublish(ctx context.Context, id string) (Article, error) {
	a, err := svc.repo.GetArticle(ctx, id)
	if err != nil {
		return Article{}, err
	}
	a.Published = !a.Published
	if a.Published && a.PublishedAt == nil {
		now := nowFunc().UTC()
		a.PublishedAt = &now
	}
	return svc.repo.UpdateArticle(ctx, a)
}

// Reorder persists ids as the new admin order: the article at ids[i] gets sort order i.
func (svc *service) Reorder(ctx context.Context, ids []string) ([]Article, error) {
	current, err := svc.repo.QueryArticles(ctx, nil, AdminOrdering, 0)
	if err != nil {
		return nil, errors.Wrap(err, "querying articles")
	}
	if !isPermutation(current, ids) {
		return nil, core.NewValidationError(ErrInvalidOrdering, core.FieldError{Field: "ids", Error: ErrInvalidOrdering.Error()})
	}
	if err = svc.repo.UpdateSortOrders(ctx, ids); err != nil {
		return nil, errors.Wrap(err, "updating sort orders")
	}
	return svc.repo.QueryArticles(ctx, nil, AdminOrdering, 0)
}

// Move drops the article id at position in the admin order. Nothing is persisted when the position is unchanged.
func (svc *service) Move(ctx context.Context, id string, position int) ([]Article, bool, error) {
	current, err := svc.repo.QueryArticles(ctx, nil, AdminOrdering, 0)
	if err != nil {
		return nil, false, errors.Wrap(err, "querying articles")
	}
	from := -1
	for i, a := range current {
		if a.ID == id {
			from = i
			break
		}
	}
	if from < 0 {
		return nil, false, ErrNotFound
	}
	if position < 0 || position >= len(current) {
		msg := fmt.Sprintf("position must be between 0 and %d", len(current)-1)
		return nil, false, core.NewValidationError(errors.New(msg), core.FieldError{Field: "position", Error: msg})
	}
	if from == position {
		return current, false, nil
	}

	ids := make([]string, 0, len(current))
	for _, a := range current {
		ids = append(ids, a.ID)
	}
	articles, err := svc.Reorder(ctx, ArrayMove(ids, from, position))
	if err != nil {
		return nil, false, err
	}
	return articles, true, nil
}

// Delete removes the cover image (best-effort) then the article.
func (svc *service) Delete(ctx context.Context, id string) error {
	a, err := svc.repo.GetArticle(ctx, id)
	if err != nil {
		return err
	}
	if a.CoverImageURL != "" && svc.images != nil {
		if err := svc.images.Delete(ctx, a.CoverImageURL); err != nil {
			svc.logger.Warn(fmt.Sprintf("deleting cover image of article %s: %v", id, err), err)
		}
	}
	return svc.repo.DeleteArticle(ctx, id)
}

func (svc *service) IncrementViews(ctx context.Context, id string) error {
	return svc.repo.IncrementViews(ctx, id)
}

func (svc *service) UploadCover(ctx context.Context, filename string, r io.Reader) (string, error) {
	if svc.images == nil {
		return "", errors.New("no image store configured")
	}
	return svc.images.Upload(ctx, coverFolder, filename, r)
}

// ArrayMove returns a copy of ids with the element at from moved to index to.
func ArrayMove(ids []string, from, to int) []string {
	res := make([]string, 0, len(ids))
	res = append(res, ids[:from]...)
	res = append(res, ids[from+1:]...)

	moved := ids[from]
	res = append(res[:to], append([]string{moved}, res[to:]...)...)
	return res
}

func isPermutation(articles []Article, ids []string) bool {
	if len(articles) != len(ids) {
		return false
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return false
		}
		seen[id] = true
	}
	for _, a := range articles {
		if !seen[a.ID] {
			return false
		}
	}
	return true
}
