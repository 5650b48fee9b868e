package echoapi

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/trezcool/wittayakom/core"
	"github.com/trezcool/wittayakom/core/settings"
	appfs "github.com/trezcool/wittayakom/fs"
)

const pagesDir = "templates/pages"

// Article bodies are editor HTML, older ones markdown. Raw HTML passes through goldmark
// and is then sanitized.
var (
	md = goldmark.New(
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithUnsafe(),
		),
	)
	ugc = bluemonday.UGCPolicy()
)

type navLink struct {
	Name string
	Href string
}

var navLinks = []navLink{
	{"หน้าแรก", "/"},
	{"เกี่ยวกับเรา", "/about"},
	{"ผู้บริหาร", "/administrators"},
	{"บุคลากร", "/staff"},
	{"นักเรียน", "/students"},
	{"หลักสูตร", "/curriculum"},
	{"แกลเลอรี่", "/gallery"},
	{"ปฏิทิน", "/calendar"},
	{"ข่าวสาร", "/news"},
	{"ติดต่อ", "/contact"},
}

// PageData is what every page template receives.
type PageData struct {
	Title    string
	Path     string
	Settings settings.Settings
	Nav      []navLink
	Notices  []string // sections that failed to load
	Data     interface{}
}

func (p *PageData) notice(section string) {
	p.Notices = append(p.Notices, section)
}

// richText renders an article body as sanitized HTML.
func richText(src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(ugc.SanitizeBytes(buf.Bytes()))
}

func formatDate(t interface{}) string {
	switch v := t.(type) {
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format("02/01/2006")
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format("02/01/2006")
	}
	return ""
}

var funcMap = template.FuncMap{
	"richText": richText,
	"date":     formatDate,
	"add":      func(a, b int) int { return a + b },
	"year":     func() int { return time.Now().Year() },
	"isActive": func(current, href string) bool {
		if href == "/" {
			return current == "/"
		}
		return current == href || strings.HasPrefix(current, href+"/")
	},
}

// templateRenderer is an echo.Renderer over the embedded page templates.
// Every page is parsed along the `_`-prefixed layout and partials; a page defining "document" is rendered
// standalone, others through "layout".
type templateRenderer struct {
	templates map[string]*template.Template
}

func newRenderer(fsys fs.FS, dir string) (*templateRenderer, error) {
	fps, err := fs.Glob(fsys, path.Join(dir, "*.gohtml"))
	if err != nil {
		return nil, errors.Wrap(err, "listing page templates")
	}

	var shared, pages []string
	for _, fp := range fps {
		if strings.HasPrefix(path.Base(fp), "_") {
			shared = append(shared, fp)
		} else {
			pages = append(pages, fp)
		}
	}

	r := &templateRenderer{templates: make(map[string]*template.Template, len(pages))}
	for _, fp := range pages {
		name := strings.TrimSuffix(path.Base(fp), path.Ext(fp))
		tmpl, err := template.New(name).Funcs(funcMap).ParseFS(fsys, append(append([]string{}, shared...), fp)...)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", fp)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

func mustNewRenderer(logger core.Logger) echo.Renderer {
	r, err := newRenderer(appfs.FS, pagesDir)
	if err != nil {
		logger.Fatal(fmt.Sprintf("echoapi.mustNewRenderer: %v", err), err)
	}
	return r
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return errors.Errorf("page template %q not found", name)
	}
	root := "layout"
	if tmpl.Lookup("document") != nil {
		root = "document"
	}
	return tmpl.ExecuteTemplate(w, root, data)
}
