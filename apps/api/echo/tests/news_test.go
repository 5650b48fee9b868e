package tests

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/wittayakom/apps/api/echo"
	"github.com/trezcool/wittayakom/core/news"
	"github.com/trezcool/wittayakom/tests"
)

func articleIDs(articles []news.Article) []string {
	ids := make([]string, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}
	return ids
}

func Test_newsApi_list(t *testing.T) {
	e := setup(t)
	token := e.adminToken(t)

	path := func(search, category, published string) string {
		v := make(url.Values)
		if search != "" {
			v.Add("search", search)
		}
		if category != "" {
			v.Add("category", category)
		}
		if published != "" {
			v.Add("published", published)
		}
		return "/v1/news?" + v.Encode()
	}

	now := time.Now().UTC()
	sports := testutil.CreateArticle(t, e.newsRepo, news.Article{Title: "Sports Day", Category: "กีฬา", Published: true, SortOrder: 1})
	exams := testutil.CreateArticle(t, e.newsRepo, news.Article{Title: "Final exams", Excerpt: "schedule of the SPORTS hall", SortOrder: 0})
	camp := testutil.CreateArticle(t, e.newsRepo, news.Article{Title: "Science camp", Published: true, SortOrder: 2, CreatedAt: now.Add(-time.Hour)})
	fair := testutil.CreateArticle(t, e.newsRepo, news.Article{Title: "Book fair", SortOrder: 2, CreatedAt: now.Add(time.Hour)})

	tests := []httpTest{
		{name: "Auth required", path: "/v1/news", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{name: "Get all (sort order, then newest)", path: "/v1/news", token: token, wantData: marshalList(t, exams, sports, fair, camp)},
		{name: "search (unknown)", path: path("lol", "", ""), token: token, wantData: marshalList(t)},
		{name: "search title or excerpt", path: path("sports", "", ""), token: token, wantData: marshalList(t, exams, sports)},
		{name: "category", path: path("", "กีฬา", ""), token: token, wantData: marshalList(t, sports)},
		{name: "category=all", path: path("", "all", ""), token: token, wantData: marshalList(t, exams, sports, fair, camp)},
		{name: "search AND category", path: path("exams", "กีฬา", ""), token: token, wantData: marshalList(t)},
		{name: "published", path: path("", "", "true"), token: token, wantData: marshalList(t, sports, camp)},
		{name: "drafts", path: path("", "", "false"), token: token, wantData: marshalList(t, exams, fair)},
		{name: "invalid published", path: path("", "", "lol"), token: token, wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			e.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_newsApi_create(t *testing.T) {
	e := setup(t)
	token := e.adminToken(t)

	reqMsg := "this field is required"
	tests := []struct {
		name      string
		form      news.Form
		wantCode  int
		wantErrs  map[string]string
		published bool
	}{
		{
			name: "required fields", wantCode: http.StatusBadRequest,
			wantErrs: map[string]string{"title": reqMsg, "excerpt": reqMsg, "category": reqMsg},
		},
		{
			name: "blank fields", form: news.Form{Title: "   ", Excerpt: " ", Category: "\t"}, wantCode: http.StatusBadRequest,
			wantErrs: map[string]string{"title": reqMsg, "excerpt": reqMsg, "category": reqMsg},
		},
		{
			name: "invalid link", wantCode: http.StatusBadRequest,
			form:     news.Form{Title: "T", Excerpt: "E", Category: "C", ExternalLinks: []news.Link{{Title: "Doc", URL: "lol"}}},
			wantErrs: map[string]string{"url": "url must be a valid URL"},
		},
		{
			name: "draft", wantCode: http.StatusCreated,
			form: news.Form{Title: " Open house ", Excerpt: "Come visit", Category: "ประชาสัมพันธ์", ExternalLinks: []news.Link{{}}},
		},
		{
			name: "published", wantCode: http.StatusCreated, published: true,
			form: news.Form{Title: "Results", Excerpt: "Entrance results", Category: "ประกาศ", Published: true,
				ExternalLinks: []news.Link{{Title: "PDF", URL: "https://school.ac.th/results.pdf"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/news", token, marshalObj(t, tt.form))
			e.app.ServeHTTP(rec, req)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			if tt.wantErrs != nil {
				var errs map[string]string
				unmarshal(t, rec, &errs)
				assert.Equal(t, tt.wantErrs, errs)
				return
			}

			var a news.Article
			unmarshal(t, rec, &a)
			assert.NotEmpty(t, a.ID)
			assert.Equal(t, strings.TrimSpace(tt.form.Title), a.Title)
			assert.Equal(t, 0, a.SortOrder)
			assert.Equal(t, 0, a.Views)
			assert.Equal(t, tt.published, a.Published)
			assert.Equal(t, tt.published, a.PublishedAt != nil)
			for _, l := range a.ExternalLinks {
				assert.NotEmpty(t, l.URL)
			}

			_, err := e.newsRepo.GetArticle(context.Background(), a.ID)
			assert.NoError(t, err)
		})
	}
}

func Test_newsApi_update(t *testing.T) {
	e := setup(t)
	token := e.adminToken(t)

	draft := testutil.CreateArticle(t, e.newsRepo, news.Article{Title: "Draft", Views: 7, SortOrder: 3})

	t.Run("not found", func(t *testing.T) {
		form := news.Form{Title: "T", Excerpt: "E", Category: "C"}
		req, rec := newAuthRequest(http.MethodPut, "/v1/news/lol", token, marshalObj(t, form))
		e.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("validation", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/news/"+draft.ID, token, marshalObj(t, news.Form{}))
		e.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	var firstPublishedAt time.Time
	t.Run("publishing stamps the publish time", func(t *testing.T) {
		form := news.Form{Title: "Final", Excerpt: "E", Category: "C", Published: true}
		req, rec := newAuthRequest(http.MethodPut, "/v1/news/"+draft.ID, token, marshalObj(t, form))
		e.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var a news.Article
		unmarshal(t, rec, &a)
		assert.Equal(t, "Final", a.Title)
		assert.True(t, a.Published)
		require.NotNil(t, a.PublishedAt)
		assert.Equal(t, 7, a.Views, "views are kept")
		assert.Equal(t, 3, a.SortOrder, "sort order is kept")
		firstPublishedAt = *a.PublishedAt
	})

	t.Run("unpublishing keeps the publish time", func(t *testing.T) {
		form := news.Form{Title: "Final", Excerpt: "E", Category: "C", Published: false}
		req, rec := newAuthRequest(http.MethodPut, "/v1/news/"+draft.ID, token, marshalObj(t, form))
		e.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var a news.Article
		unmarshal(t, rec, &a)
		assert.False(t, a.Published)
		require.NotNil(t, a.PublishedAt)
		assert.True(t, firstPublishedAt.Equal(*a.PublishedAt))
	})
}

func Test_newsApi_togglePublish(t *testing.T) {
	e := setup(t)
	token := e.adminToken(t)

	a := testutil.CreateArticle(t, e.newsRepo, news.Article{Title: "Draft"})
	toggle := func(t *testing.T, id string) (news.Article, int) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/news/"+id+"/publish", token)
		e.app.ServeHTTP(rec, req)
		var res news.Article
		if rec.Code == http.StatusOK {
			unmarshal(t, rec, &res)
		}
		return res, rec.Code
	}

	published, code := toggle(t, a.ID)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, published.Published)
	require.NotNil(t, published.PublishedAt)

	unpublished, code := toggle(t, a.ID)
	require.Equal(t, http.StatusOK, code)
	assert.False(t, unpublished.Published)
	require.NotNil(t, unpublished.PublishedAt)

	republished, code := toggle(t, a.ID)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, republished.Published)
	assert.True(t, published.PublishedAt.Equal(*republished.PublishedAt), "first publish time is kept")

	_, code = toggle(t, "lol")
	assert.Equal(t, http.StatusNotFound, code)
}

func Test_newsApi_reorder(t *testing.T) {
	e := setup(t)
	token := e.adminToken(t)

	a := testutil.CreateArticle(t, e.newsRepo, news.Article{Title: "A", SortOrder: 5})
	b := testutil.CreateArticle(t, e.newsRepo, news.Article{Title: "B", SortOrder: 9})
	c := testutil.CreateArticle(t, e.newsRepo, news.Article{Title: "C", SortOrder: 9})

	tests := []struct {
		name     string
		ids      []string
		wantCode int
		wantIDs  []string
	}{
		{name: "empty", ids: nil, wantCode: http.StatusBadRequest},
		{name: "missing id", ids: []string{a.ID, b.ID}, wantCode: http.StatusBadRequest},
		{name: "duplicated id", ids: []string{a.ID, b.ID, b.ID}, wantCode: http.StatusBadRequest},
		{name: "unknown id", ids: []string{a.ID, b.ID, "lol"}, wantCode: http.StatusBadRequest},
		{name: "dense order", ids: []string{c.ID, a.ID, b.ID}, wantCode: http.StatusOK, wantIDs: []string{c.ID, a.ID, b.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := e.db.SortOrders()

			req, rec := newAuthRequest(http.MethodPut, "/v1/news/reorder", token, marshalObj(t, news.ReorderRequest{IDs: tt.ids}))
			e.app.ServeHTTP(rec, req)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			if tt.wantCode != http.StatusOK {
				assert.Equal(t, before, e.db.SortOrders(), "nothing is written")
				return
			}
			var articles []news.Article
			unmarshal(t, rec, &articles)
			assert.Equal(t, tt.wantIDs, articleIDs(articles))
			for i, id := range tt.wantIDs {
				assert.Equal(t, i, e.db.SortOrders()[id])
			}
		})
	}
}

func Test_newsApi_move(t *testing.T) {
	e := setup(t)
	token := e.adminToken(t)

	a := testutil.CreateArticle(t, e.newsRepo, news.Article{Title: "A", SortOrder: 0})
	b := testutil.CreateArticle(t, e.newsRepo, news.Article{Title: "B", SortOrder: 1})
	c := testutil.CreateArticle(t, e.newsRepo, news.Article{Title: "C", SortOrder: 2})
	pos := func(i int) *int { return &i }

	tests := []struct {
		name      string
		id        string
		position  *int
		wantCode  int
		wantMoved bool
		wantIDs   []string
	}{
		{name: "position required", id: a.ID, wantCode: http.StatusBadRequest},
		{name: "negative position", id: a.ID, position: pos(-1), wantCode: http.StatusBadRequest},
		{name: "out of range", id: a.ID, position: pos(3), wantCode: http.StatusBadRequest},
		{name: "unknown article", id: "lol", position: pos(0), wantCode: http.StatusNotFound},
		{name: "same position", id: b.ID, position: pos(1), wantCode: http.StatusOK, wantIDs: []string{a.ID, b.ID, c.ID}},
		{name: "down", id: a.ID, position: pos(2), wantCode: http.StatusOK, wantMoved: true, wantIDs: []string{b.ID, c.ID, a.ID}},
		{name: "up", id: a.ID, position: pos(0), wantCode: http.StatusOK, wantMoved: true, wantIDs: []string{a.ID, b.ID, c.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/news/"+tt.id+"/move", token, marshalObj(t, news.MoveRequest{Position: tt.position}))
			e.app.ServeHTTP(rec, req)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode != http.StatusOK {
				return
			}
			var resp echoapi.MoveResponse
			unmarshal(t, rec, &resp)
			assert.Equal(t, tt.wantMoved, resp.Moved)
			assert.Equal(t, tt.wantIDs, articleIDs(resp.Articles))
		})
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newUploadRequest(t *testing.T, token, filename string, content []byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/news/covers", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req, httptest.NewRecorder()
}

func Test_newsApi_coverAndDelete(t *testing.T) {
	e := setup(t)
	token := e.adminToken(t)

	t.Run("file required", func(t *testing.T) {
		req, rec := newUploadRequest(t, token, "", nil)
		e.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not an image", func(t *testing.T) {
		req, rec := newUploadRequest(t, token, "cover.png", []byte("lol"))
		e.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	// upload, attach, delete
	req, rec := newUploadRequest(t, token, "Sports Day.png", pngBytes(t, 40, 20))
	e.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var cover echoapi.CoverResponse
	unmarshal(t, rec, &cover)
	require.True(t, strings.HasPrefix(cover.URL, e.conf.Storage.ImagesBaseURL+"/news/"), cover.URL)

	fp := filepath.Join(e.conf.Storage.ImagesDir, filepath.FromSlash(strings.TrimPrefix(cover.URL, e.conf.Storage.ImagesBaseURL+"/")))
	_, err := os.Stat(fp)
	require.NoError(t, err)

	t.Run("cover is served", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, cover.URL)
		e.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	a := testutil.CreateArticle(t, e.newsRepo, news.Article{Title: "Sports Day", CoverImageURL: cover.URL})

	t.Run("delete removes the cover", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/news/"+a.ID, token)
		e.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)

		_, err := e.newsRepo.GetArticle(context.Background(), a.ID)
		assert.Equal(t, news.ErrNotFound, err)
		_, err = os.Stat(fp)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("delete unknown", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/news/"+a.ID, token)
		e.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing cover does not block deletion", func(t *testing.T) {
		b := testutil.CreateArticle(t, e.newsRepo, news.Article{Title: "B", CoverImageURL: e.conf.Storage.ImagesBaseURL + "/news/gone.jpg"})
		req, rec := newAuthRequest(http.MethodDelete, "/v1/news/"+b.ID, token)
		e.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func Test_newsApi_public(t *testing.T) {
	e := setup(t)
	e.db.SetNewsCategories("ประกาศ", "กีฬา")

	draft := testutil.CreateArticle(t, e.newsRepo, news.Article{Title: "Draft", SortOrder: 0})
	first := testutil.CreateArticle(t, e.newsRepo, news.Article{Title: "First", Published: true, SortOrder: 1})
	pinned := testutil.CreateArticle(t, e.newsRepo, news.Article{Title: "Pinned", Published: true, IsPinned: true, SortOrder: 3})
	second := testutil.CreateArticle(t, e.newsRepo, news.Article{Title: "Second", Published: true, SortOrder: 2})

	tests := []httpTest{
		{name: "published only, pinned first", path: "/v1/news/public", wantData: marshalList(t, pinned, first, second)},
		{name: "limit", path: "/v1/news/public?limit=2", wantData: marshalList(t, pinned, first)},
		{name: "invalid limit", path: "/v1/news/public?limit=lol", wantCode: http.StatusBadRequest},
		{name: "search", path: "/v1/news/public?search=seco", wantData: marshalList(t, second)},
		{name: "retrieve published", path: "/v1/news/public/" + first.ID, wantData: marshalObj(t, first)},
		{name: "draft is hidden", path: "/v1/news/public/" + draft.ID, wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			e.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("categories are sorted", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/news/categories", e.adminToken(t))
		e.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var cats []string
		unmarshal(t, rec, &cats)
		assert.Equal(t, []string{"กีฬา", "ประกาศ"}, cats)
	})

	t.Run("views", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			req, rec := newRequest(http.MethodPost, "/v1/news/"+first.ID+"/view")
			e.app.ServeHTTP(rec, req)
			require.Equal(t, http.StatusNoContent, rec.Code)
		}
		a, err := e.newsRepo.GetArticle(context.Background(), first.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, a.Views)

		req, rec := newRequest(http.MethodPost, "/v1/news/lol/view")
		e.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
