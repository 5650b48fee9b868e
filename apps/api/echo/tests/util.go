package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/wittayakom/apps/api/echo"
	"github.com/trezcool/wittayakom/core"
	"github.com/trezcool/wittayakom/core/account"
	"github.com/trezcool/wittayakom/core/enrollment"
	"github.com/trezcool/wittayakom/core/news"
	"github.com/trezcool/wittayakom/core/settings"
	"github.com/trezcool/wittayakom/core/site"
	appfs "github.com/trezcool/wittayakom/fs"
	"github.com/trezcool/wittayakom/services/email"
	"github.com/trezcool/wittayakom/storage/database/inmem"
	"github.com/trezcool/wittayakom/storage/images"
	"github.com/trezcool/wittayakom/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

// env is one fully wired server over fresh in-memory repositories.
type env struct {
	app      echoapi.Server
	conf     *core.Config
	db       *inmemdb.DB
	mail     *emailsvc.ConsoleServiceMock
	settings *settings.Cache

	accRepo  account.Repository
	newsRepo news.Repository
	appRepo  enrollment.Repository

	settingsRepo settings.Repository
}

func setup(t *testing.T) *env {
	t.Helper()

	conf := core.NewTestConfig()
	conf.Storage.ImagesDir = t.TempDir()
	logger := testutil.NewLogger()
	validate, translator := testutil.NewValidator()
	core.ParseEmailTemplates(appfs.FS, "templates/email", conf, logger)

	// set up DB & repos
	db := inmemdb.NewDB()
	e := &env{
		conf:     conf,
		db:       db,
		mail:     emailsvc.NewConsoleServiceMock(conf, logger),
		accRepo:  inmemdb.NewAccountRepository(db),
		newsRepo: inmemdb.NewNewsRepository(db),
		appRepo:  inmemdb.NewApplicationRepository(db),
	}

	// set up services
	e.settingsRepo = inmemdb.NewSettingsRepository(db)
	e.settings = settings.NewCache(e.settingsRepo, nil, logger)
	siteSvc := site.NewService(inmemdb.NewSiteRepository(db))
	images := imagestore.NewLocalStore(conf.Storage.ImagesDir, conf.Storage.ImagesBaseURL, conf.Storage.ImagesMaxDimension)

	// set up server
	e.app = echoapi.NewServer(&echoapi.Options{
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
		AccountSvc:     account.NewService(e.accRepo, e.mail, conf),
		NewsSvc:        news.NewService(e.newsRepo, images, logger),
		EnrollmentSvc:  enrollment.NewService(e.appRepo, siteSvc, e.settings, e.mail, logger),
		SiteSvc:        siteSvc,
		Settings:       e.settings,
	})
	t.Cleanup(func() {
		_ = e.app.Stop(context.Background())
	})
	return e
}

// adminToken creates an active admin account and returns a token for it.
func (e *env) adminToken(t *testing.T) string {
	t.Helper()
	acc := testutil.CreateAccount(t, e.accRepo, "Admin", "admin", "admin@test.th", "", true)
	return getToken(t, e.app, acc)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, app echoapi.Server, acc account.Account) string {
	token, err := app.TokenFor(acc)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func marshalList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marshalList() failed: %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	assert.Equal(t, tt.wantCode, rec.Code, "code; body %s", rec.Body.String())
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
