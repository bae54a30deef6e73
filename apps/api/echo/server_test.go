package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-insights/core"
	"github.com/trezcool/masomo-insights/core/survey"
	"github.com/trezcool/masomo-insights/core/user"
	"github.com/trezcool/masomo-insights/fs"
	"github.com/trezcool/masomo-insights/services/email"
	"github.com/trezcool/masomo-insights/storage/database/inmem"
	"github.com/trezcool/masomo-insights/tests"
)

const (
	school      = "school-1"
	otherSchool = "school-2"
	course      = "course-1"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type surveySeeder interface {
	AddSurvey(srv survey.Survey) survey.Survey
	AddEnrollment(schoolID, courseID string, studentIDs ...string)
	AddResponses(surveyID string, responses ...survey.SurveyResponse)
}

type testEnv struct {
	app     *Server
	auth    *authenticator
	usrRepo user.Repository
	srvRepo surveySeeder
}

func setup(t *testing.T) testEnv {
	t.Helper()

	conf := testutil.NewConfig()
	logger := testutil.NewLoggerMock()

	// set up DB & repos
	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	srvRepo := inmemdb.NewSurveyRepository(db)

	// set up services
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	core.ParseEmailTemplates(appfs.FS, logger, true)
	emailsvc.ResetSentMessages()

	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)

	app := NewServer(Deps{
		Conf:       conf,
		Logger:     logger,
		UserSvc:    user.NewService(usrRepo),
		SurveySvc:  survey.NewService(srvRepo, mailSvc, logger),
		Validate:   validate,
		Translator: translator,
	})
	return testEnv{app: app, auth: app.auth, usrRepo: usrRepo, srvRepo: srvRepo}
}

func (env testEnv) getToken(t *testing.T, usr user.User, origIat ...int64) string {
	token, err := env.auth.GenerateToken(env.auth.GetUserClaims(usr, origIat...))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func (env testEnv) serve(tt httpTest) *httptest.ResponseRecorder {
	method := tt.method
	if method == "" {
		method = http.MethodGet
	}
	req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
	env.app.ServeHTTP(rec, req)
	return rec
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

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
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
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
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

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode(%s) failed: %v", rec.Body.String(), err)
	}
}

func TestServer_home(t *testing.T) {
	env := setup(t)

	rec := env.serve(httpTest{path: "/"})

	if rec.Code != http.StatusOK {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != "Welcome to Masomo Insights API!" {
		t.Errorf("failed! body = %q", got)
	}
}

func TestServer_signalShutdown(t *testing.T) {
	env := setup(t)

	env.app.signalShutdown()
	env.app.signalShutdown() // must not block

	select {
	case <-env.app.ShutdownSignal():
	case <-time.After(time.Second):
		t.Error("failed! no shutdown signal")
	}
}
