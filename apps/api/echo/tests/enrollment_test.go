package tests

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/wittayakom/apps/api/echo"
	"github.com/trezcool/wittayakom/core/enrollment"
	"github.com/trezcool/wittayakom/tests"
)

func wizardRequest(t *testing.T, step enrollment.Step, data enrollment.FormData) []byte {
	return marshalObj(t, echoapi.WizardRequest{Step: step, Data: data})
}

func Test_enrollmentApi_programs(t *testing.T) {
	e := setup(t)

	req, rec := newRequest(http.MethodGet, "/v1/enrollment/programs")
	e.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp echoapi.ProgramsResponse
	unmarshal(t, rec, &resp)
	assert.Equal(t, "2568", resp.AcademicYear)
	assert.Equal(t, enrollment.FallbackPrograms, resp.Programs, "no active program in the curriculum")
	assert.Equal(t, enrollment.Prefixes, resp.Prefixes)
	assert.Equal(t, enrollment.EnrollLevels, resp.EnrollLevels)
}

func Test_enrollmentApi_next(t *testing.T) {
	e := setup(t)

	valid := testutil.ValidFormData()
	badStudent := valid
	badStudent.IDCard = "123"
	badStudent.Email = "lol"
	badGuardian := valid
	badGuardian.FatherPhone = "08"
	badAcademic := valid
	badAcademic.Program = " "

	tests := []struct {
		name     string
		step     enrollment.Step
		data     enrollment.FormData
		wantCode int
		wantStep enrollment.Step
		wantErrs []string
	}{
		{name: "invalid step", step: 0, data: valid, wantCode: http.StatusConflict},
		{name: "submitted step", step: enrollment.StepSubmitted, data: valid, wantCode: http.StatusConflict},
		{name: "review is the last step", step: enrollment.StepReview, data: valid, wantCode: http.StatusConflict},
		{
			name: "empty student step", step: enrollment.StepStudent, data: enrollment.NewFormData(), wantCode: http.StatusBadRequest,
			wantErrs: []string{"prefix", "first_name", "last_name", "id_card", "birth_date", "phone", "email", "address"},
		},
		{
			name: "invalid student step", step: enrollment.StepStudent, data: badStudent, wantCode: http.StatusBadRequest,
			wantErrs: []string{"id_card", "email"},
		},
		{
			name: "invalid guardian step", step: enrollment.StepGuardian, data: badGuardian, wantCode: http.StatusBadRequest,
			wantErrs: []string{"father_phone"},
		},
		{
			name: "invalid academic step", step: enrollment.StepAcademic, data: badAcademic, wantCode: http.StatusBadRequest,
			wantErrs: []string{"program"},
		},
		{name: "student to guardian", step: enrollment.StepStudent, data: valid, wantCode: http.StatusOK, wantStep: enrollment.StepGuardian},
		{name: "guardian to academic", step: enrollment.StepGuardian, data: valid, wantCode: http.StatusOK, wantStep: enrollment.StepAcademic},
		{name: "academic to review", step: enrollment.StepAcademic, data: valid, wantCode: http.StatusOK, wantStep: enrollment.StepReview},
		{
			name: "later steps are not validated", step: enrollment.StepStudent, wantCode: http.StatusOK, wantStep: enrollment.StepGuardian,
			data: func() enrollment.FormData {
				fd := valid
				fd.FatherName = ""
				fd.AgreeTerms = false
				return fd
			}(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/enrollment/wizard/next", wizardRequest(t, tt.step, tt.data))
			e.app.ServeHTTP(rec, req)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			if tt.wantErrs != nil {
				var errs map[string]string
				unmarshal(t, rec, &errs)
				keys := make([]string, 0, len(errs))
				for k := range errs {
					keys = append(keys, k)
				}
				assert.ElementsMatch(t, tt.wantErrs, keys)
				return
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			var resp echoapi.WizardResponse
			unmarshal(t, rec, &resp)
			assert.Equal(t, tt.wantStep, resp.Step)
			assert.Equal(t, tt.wantStep.String(), resp.StepName)
		})
	}

	t.Run("data is cleaned", func(t *testing.T) {
		fd := valid
		fd.FirstName = "  สมชาย  "
		fd.Email = " SomChai@Test.TH "
		req, rec := newRequest(http.MethodPost, "/v1/enrollment/wizard/next", wizardRequest(t, enrollment.StepStudent, fd))
		e.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp echoapi.WizardResponse
		unmarshal(t, rec, &resp)
		assert.Equal(t, "สมชาย", resp.Data.FirstName)
		assert.Equal(t, "somchai@test.th", resp.Data.Email)
	})
}

func Test_enrollmentApi_back(t *testing.T) {
	e := setup(t)

	tests := []struct {
		name     string
		step     enrollment.Step
		wantCode int
		wantStep enrollment.Step
	}{
		{name: "first step stays", step: enrollment.StepStudent, wantCode: http.StatusOK, wantStep: enrollment.StepStudent},
		{name: "guardian to student", step: enrollment.StepGuardian, wantCode: http.StatusOK, wantStep: enrollment.StepStudent},
		{name: "review to academic", step: enrollment.StepReview, wantCode: http.StatusOK, wantStep: enrollment.StepAcademic},
		{name: "submitted", step: enrollment.StepSubmitted, wantCode: http.StatusConflict},
		{name: "unknown step", step: 42, wantCode: http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// back never validates
			req, rec := newRequest(http.MethodPost, "/v1/enrollment/wizard/back", wizardRequest(t, tt.step, enrollment.FormData{}))
			e.app.ServeHTTP(rec, req)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode != http.StatusOK {
				return
			}
			var resp echoapi.WizardResponse
			unmarshal(t, rec, &resp)
			assert.Equal(t, tt.wantStep, resp.Step)
		})
	}
}

func Test_enrollmentApi_submit(t *testing.T) {
	e := setup(t)

	valid := testutil.ValidFormData()
	disagree := valid
	disagree.AgreePrivacy = false
	invalidEarlier := valid
	invalidEarlier.LastName = ""

	tests := []struct {
		name     string
		step     enrollment.Step
		data     enrollment.FormData
		wantCode int
	}{
		{name: "not at review", step: enrollment.StepAcademic, data: valid, wantCode: http.StatusConflict},
		{name: "agreements required", step: enrollment.StepReview, data: disagree, wantCode: http.StatusBadRequest},
		{name: "every step is validated", step: enrollment.StepReview, data: invalidEarlier, wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/enrollment/submit", wizardRequest(t, tt.step, tt.data))
			e.app.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
	require.Empty(t, e.mail.SentMessages())

	req, rec := newRequest(http.MethodPost, "/v1/enrollment/submit", wizardRequest(t, enrollment.StepReview, valid))
	e.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp echoapi.SubmitResponse
	unmarshal(t, rec, &resp)
	app := resp.Application
	assert.NotEmpty(t, app.ID)
	assert.Equal(t, enrollment.StatusPending, app.Status)
	assert.Equal(t, "เด็กชายสมชาย ใจดี", app.StudentName)
	assert.Equal(t, enrollment.GenderMale, app.Gender)
	assert.Equal(t, "วิทย์-คณิต", app.Program, "the program label is stored")
	assert.Equal(t, "ENR-2568-"+strings.ToUpper(app.ID[:8]), resp.Number)

	stored, err := e.appRepo.GetApplication(req.Context(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, app.StudentName, stored.StudentName)

	sent := e.mail.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, valid.Email, sent[0].To[0].Address)
	assert.Equal(t, "enrollment_submitted", sent[0].TemplateName)
	assert.Contains(t, sent[0].TextContent, resp.Number)
	assert.Contains(t, sent[0].HTMLContent, resp.Number)
}

func Test_enrollmentApi_lookup(t *testing.T) {
	e := setup(t)

	now := time.Now().UTC()
	older := testutil.CreateApplication(t, e.appRepo, "เด็กหญิงมาลี ดีใจ", enrollment.StatusApproved, now.Add(-time.Hour))
	newer := testutil.CreateApplication(t, e.appRepo, "เด็กหญิงมาลี สุขใจ", enrollment.StatusPending, now)
	number := func(app enrollment.Application) string { return app.Number("2568") }
	path := func(q string) string { return "/v1/enrollment/lookup?q=" + url.QueryEscape(q) }

	t.Run("only the public view is exposed", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, path("มาลี"))
		e.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var got map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, number(newer), got["number"])
		assert.Equal(t, newer.StudentName, got["student_name"])
		assert.Equal(t, enrollment.StatusPending, got["status"])
		for _, key := range []string{"id", "student_id_card", "address", "phone", "email", "father_phone", "mother_phone", "application"} {
			assert.NotContains(t, got, key)
		}
		assert.NotContains(t, rec.Body.String(), newer.IDCard)
	})

	tests := []httpTest{
		{name: "empty", path: path("  "), wantCode: http.StatusBadRequest},
		{name: "by name, newest first", path: path("มาลี"), wantData: marshalObj(t, newer.LookupResult("2568"))},
		{name: "by full name", path: path("มาลี ดีใจ"), wantData: marshalObj(t, older.LookupResult("2568"))},
		{name: "by number", path: path(number(older)), wantData: marshalObj(t, older.LookupResult("2568"))},
		{name: "by number, lower case", path: path(strings.ToLower(number(older))), wantData: marshalObj(t, older.LookupResult("2568"))},
		{name: "unknown name", path: path("lol"), wantCode: http.StatusNotFound},
		{name: "unknown number", path: path("ENR-2568-ZZZZZZZZ"), wantCode: http.StatusNotFound},
		{name: "trailing separator", path: path("ENR-"), wantCode: http.StatusNotFound},
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
}

func Test_enrollmentApi_applications(t *testing.T) {
	e := setup(t)
	token := e.adminToken(t)

	now := time.Now().UTC()
	pending := testutil.CreateApplication(t, e.appRepo, "เด็กชายกล้า หาญ", enrollment.StatusPending, now.Add(-2*time.Hour))
	approved := testutil.CreateApplication(t, e.appRepo, "นางสาวแก้ว ใส", enrollment.StatusApproved, now.Add(-time.Hour))
	rejected := testutil.CreateApplication(t, e.appRepo, "นายกล้า ใจ", enrollment.StatusRejected, now)

	tests := []httpTest{
		{name: "Auth required", path: "/v1/enrollment/applications", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{name: "Get all, newest first", path: "/v1/enrollment/applications", token: token, wantData: marshalList(t, rejected, approved, pending)},
		{name: "search", path: "/v1/enrollment/applications?search=" + url.QueryEscape("กล้า"), token: token, wantData: marshalList(t, rejected, pending)},
		{name: "status", path: "/v1/enrollment/applications?status=APPROVED", token: token, wantData: marshalList(t, approved)},
		{name: "search AND status", path: "/v1/enrollment/applications?status=pending&search=" + url.QueryEscape("ใส"), token: token, wantData: marshalList(t)},
		{name: "retrieve", path: "/v1/enrollment/applications/" + approved.ID, token: token, wantData: marshalObj(t, approved)},
		{name: "retrieve unknown", path: "/v1/enrollment/applications/lol", token: token, wantCode: http.StatusNotFound},
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
