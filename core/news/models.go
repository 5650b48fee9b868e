package news

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/wittayakom/core"
)

// AllCategories disables the category filter when used as QueryFilter.Category.
const AllCategories = "all"

type (
	Link struct {
		Title string `json:"title" validate:"required"`
		URL   string `json:"url" validate:"required,url"`
	}

	Article struct {
		ID            string     `json:"id"`
		Title         string     `json:"title"`
		Excerpt       string     `json:"excerpt"`
		Content       string     `json:"content"`
		Category      string     `json:"category"`
		CoverImageURL string     `json:"cover_image_url"`
		Published     bool       `json:"published"`
		IsPinned      bool       `json:"is_pinned"`
		PublishedAt   *time.Time `json:"published_at"` // UTC; first time the article got published
		SortOrder     int        `json:"sort_order"`
		Views         int        `json:"views"`
		ExternalLinks []Link     `json:"external_links"`
		CreatedAt     time.Time  `json:"created_at"` // UTC
		UpdatedAt     time.Time  `json:"updated_at"` // UTC
	}
)

// Form contains the editable fields of an Article, used both to create and to update one.
type Form struct {
	Title         string `json:"title" validate:"required,max=255"`
	Excerpt       string `json:"excerpt" validate:"required,max=1000"`
	Content       string `json:"content"`
	Category      string `json:"category" validate:"required,max=100"`
	CoverImageURL string `json:"cover_image_url" validate:"omitempty,max=2048"`
	Published     bool   `json:"published"`
	IsPinned      bool   `json:"is_pinned"`
	ExternalLinks []Link `json:"external_links" validate:"omitempty,dive"`
}

// Clean trims the text fields and drops the external links left completely blank.
func (f *Form) Clean() {
	f.Title = core.CleanString(f.Title)
	f.Excerpt = core.CleanString(f.Excerpt)
	f.Category = core.CleanString(f.Category)
	f.CoverImageURL = core.CleanString(f.CoverImageURL)

	links := make([]Link, 0, len(f.ExternalLinks))
	for _, l := range f.ExternalLinks {
		l.Title = core.CleanString(l.Title)
		l.URL = core.CleanString(l.URL)
		if l.Title == "" && l.URL == "" {
			continue
		}
		links = append(links, l)
	}
	f.ExternalLinks = links
}

func (f *Form) Validate(validate *validator.Validate) error {
	f.Clean()
	return validate.Struct(f)
}

type QueryFilter struct {
	Search    string `query:"search"`
	Category  string `query:"category"`
	Published *bool  `query:"-"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Category = core.CleanString(qf.Category)
	if strings.EqualFold(qf.Category, AllCategories) {
		qf.Category = ""
	}
}

// Matches reports whether a satisfies the filter: the search must be a case-insensitive substring of
// the title or the excerpt AND the category must be equal.
func (qf QueryFilter) Matches(a Article) bool {
	if qf.Search != "" && !(core.ContainsFold(a.Title, qf.Search) || core.ContainsFold(a.Excerpt, qf.Search)) {
		return false
	}
	if qf.Category != "" && a.Category != qf.Category {
		return false
	}
	if qf.Published != nil && a.Published != *qf.Published {
		return false
	}
	return true
}

type ReorderRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

type MoveRequest struct {
	Position *int `json:"position" validate:"required,min=0"`
}
