package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"symptracker/services"
	"symptracker/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() { gin.SetMode(gin.TestMode) }

type fakeUploader struct{ keys []string }

func (f *fakeUploader) ExportKey(now time.Time) string { return "symptoms-test.csv" }

func (f *fakeUploader) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	f.keys = append(f.keys, key)
	return "s3://diary/" + key, nil
}

func newTestRouter(t *testing.T, secret, hash string, up *fakeUploader) *gin.Engine {
	t.Helper()
	store := services.NewStorageService(services.NewCSVTableStore(filepath.Join(t.TempDir(), "symptoms.csv")), nil)
	d := Deps{
		Store:     store,
		Analytics: services.NewAnalyticsService(store, nil),
		Trainer:   services.NewTrainerService(store, nil, nil),
		Auth:      services.NewAuthService(secret, hash),
		JWTSecret: secret,
		Logger:    zap.NewNop(),
	}
	if up != nil {
		d.Uploader = up
	}
	return SetupRouter(d)
}

func do(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

func TestRouter_DiaryFlow(t *testing.T) {
	up := &fakeUploader{}
	r := newTestRouter(t, "", "", up)

	if w := do(r, http.MethodGet, "/health", "", ""); w.Code != http.StatusOK {
		t.Fatalf("health = %d", w.Code)
	}

	var list struct {
		Total   int      `json:"total"`
		Columns []string `json:"columns"`
		Message string   `json:"message"`
	}
	w := do(r, http.MethodGet, "/api/entries", "", "")
	decode(t, w, &list)
	if list.Total != 0 || len(list.Columns) != 22 || list.Message == "" {
		t.Fatalf("empty list = %+v", list)
	}

	pain := []int{3, 4, 5, 6, 7, 3, 4, 5, 6, 7}
	fatigue := []int{2, 3, 4, 5, 6, 2, 3, 4, 5, 6}
	for i := range pain {
		body, _ := json.Marshal(map[string]any{
			"date":    time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			"pain":    pain[i],
			"fatigue": fatigue[i],
		})
		if w := do(r, http.MethodPost, "/api/entries", string(body), ""); w.Code != http.StatusCreated {
			t.Fatalf("create #%d = %d %s", i, w.Code, w.Body.String())
		}
	}

	var dash services.Dashboard
	decode(t, do(r, http.MethodGet, "/api/dashboard", "", ""), &dash)
	if dash.Days != 10 || *dash.Averages["pain"] != 5 || *dash.Averages["fatigue"] != 4 {
		t.Fatalf("dashboard = %+v", dash)
	}

	var stats services.StatisticsView
	decode(t, do(r, http.MethodGet, "/api/stats", "", ""), &stats)
	if stats.Records != 10 || stats.Columns[0].Count != 10 {
		t.Fatalf("stats = %+v", stats)
	}

	w = do(r, http.MethodPost, "/api/tree", `{"target":"pain","features":["fatigue"],"max_depth":2}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("tree = %d %s", w.Code, w.Body.String())
	}
	var report struct {
		Rows               int                          `json:"rows"`
		InSampleScore      float64                      `json:"in_sample_score"`
		FeatureImportances []services.FeatureImportance `json:"feature_importances"`
	}
	decode(t, w, &report)
	if report.Rows != 10 || report.InSampleScore < 0 || report.InSampleScore > 1 {
		t.Fatalf("report = %+v", report)
	}
	if len(report.FeatureImportances) != 1 || report.FeatureImportances[0].Importance != 1 {
		t.Fatalf("importances = %+v", report.FeatureImportances)
	}

	w = do(r, http.MethodGet, "/api/export/csv", "", "")
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("export = %d %q", w.Code, w.Header().Get("Content-Type"))
	}
	if n := bytes.Count(w.Body.Bytes(), []byte("\n")); n != 11 {
		t.Fatalf("export lines = %d, want 11", n)
	}

	w = do(r, http.MethodPost, "/api/export/s3", "", "")
	if w.Code != http.StatusCreated || len(up.keys) != 1 {
		t.Fatalf("s3 export = %d %s", w.Code, w.Body.String())
	}
}

func TestRouter_TreeErrors(t *testing.T) {
	r := newTestRouter(t, "", "", nil)

	cases := []struct {
		body string
		want int
	}{
		{`{"target":"pain","features":["fatigue"],"max_depth":11}`, http.StatusBadRequest},
		{`{"target":"pain","features":["fatigue"],"max_depth":1}`, http.StatusBadRequest},
		{`{"target":"pain","features":[]}`, http.StatusUnprocessableEntity},
		{`{"target":"pain","features":["pain"]}`, http.StatusBadRequest},
		{`{"target":"pain","features":["fatigue"]}`, http.StatusUnprocessableEntity},
		{`{"features":["fatigue"]}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		if w := do(r, http.MethodPost, "/api/tree", tc.body, ""); w.Code != tc.want {
			t.Fatalf("%s: status = %d, want %d (%s)", tc.body, w.Code, tc.want, w.Body.String())
		}
	}

	var opts services.TreeSetup
	decode(t, do(r, http.MethodGet, "/api/tree/options", "", ""), &opts)
	if opts.Warning == nil || opts.DefaultMaxDepth != services.DefaultMaxDepth {
		t.Fatalf("options = %+v", opts)
	}

	if w := do(r, http.MethodPost, "/api/export/s3", "", ""); w.Code != http.StatusNotImplemented {
		t.Fatalf("s3 without uploader = %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/entries", `{"date":"yesterday"}`, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad date = %d", w.Code)
	}
}

func TestRouter_Auth(t *testing.T) {
	hash, err := utils.HashPassword("open sesame")
	if err != nil {
		t.Fatal(err)
	}
	r := newTestRouter(t, "key", hash, nil)

	if w := do(r, http.MethodGet, "/api/schema", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated = %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/auth/login", `{"password":"nope"}`, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login = %d", w.Code)
	}

	w := do(r, http.MethodPost, "/auth/login", `{"password":"open sesame"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d %s", w.Code, w.Body.String())
	}
	var login struct {
		Token string `json:"token"`
	}
	decode(t, w, &login)

	w = do(r, http.MethodGet, "/api/schema", "", login.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("schema = %d", w.Code)
	}
	var schema struct {
		Fields []map[string]any `json:"fields"`
	}
	decode(t, w, &schema)
	if len(schema.Fields) != 22 {
		t.Fatalf("fields = %d", len(schema.Fields))
	}
}

func TestRouter_LoginDisabled(t *testing.T) {
	r := newTestRouter(t, "", "", nil)
	if w := do(r, http.MethodPost, "/auth/login", `{"password":"x"}`, ""); w.Code != http.StatusNotFound {
		t.Fatalf("login without config = %d", w.Code)
	}
}
