package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"symptracker/models"
	"symptracker/services"

	"github.com/gin-gonic/gin"
)

func init() { gin.SetMode(gin.TestMode) }

func intp(v int) *int { return &v }
func boolp(v bool) *bool { return &v }

func TestEntryInput_ToRecord(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 11, 12, 0, time.UTC)
	in := EntryInput{
		Date:      "2024-05-31",
		Time:      "22:15",
		Pain:      intp(0),
		Nausea:    boolp(true),
		WakeTime:  "06:30",
		Weather:   "Rainy",
		Hydration: intp(3),
	}
	rec, err := in.ToRecord(now)
	if err != nil {
		t.Fatalf("ToRecord: %v", err)
	}
	vals := rec.Values()
	want := map[string]string{
		"Date":                    "2024-05-31",
		"Time":                    "22:15:00",
		"Pain (0-10)":             "0",
		"Fatigue (0-10)":          "5",
		"Nausea":                  "Yes",
		"Bedtime":                 "23:00:00",
		"Wake time":               "06:30:00",
		"Weather":                 "Rainy",
		"Hydration (glasses/day)": "3",
		"Menstruation":            "No",
	}
	for k, v := range want {
		if vals[k] != v {
			t.Fatalf("%s = %q, want %q", k, vals[k], v)
		}
	}
}

func TestEntryInput_ToRecordDefaultsAndErrors(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 11, 12, 0, time.UTC)
	rec, err := EntryInput{}.ToRecord(now)
	if err != nil {
		t.Fatalf("ToRecord: %v", err)
	}
	if v := rec.Values(); v["Date"] != "2024-06-01" || v["Time"] != "10:11:12" {
		t.Fatalf("defaults = %v %v", v["Date"], v["Time"])
	}

	for _, in := range []EntryInput{{Date: "01/06/2024"}, {Time: "late"}, {Bedtime: "25:00"}} {
		if _, err := in.ToRecord(now); err == nil {
			t.Fatalf("expected error for %+v", in)
		}
	}
}

func TestRespondError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&services.InsufficientDataError{Complete: 2, Required: 5}, http.StatusUnprocessableEntity},
		{services.ErrNoFeatures, http.StatusUnprocessableEntity},
		{&services.UnknownColumnError{Column: "Mood"}, http.StatusBadRequest},
		{&services.MalformedFileError{Source: "symptoms.csv", Line: 3}, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, nil, "failed", tc.err)
		if w.Code != tc.want {
			t.Fatalf("%v: status = %d, want %d", tc.err, w.Code, tc.want)
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["error"] == "" {
			t.Fatalf("%v: body = %s", tc.err, w.Body.String())
		}
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	malformed := &services.MalformedFileError{Source: "symptoms.csv", Line: 3}
	respondError(c, nil, "failed", malformed)
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != malformed.Error() {
		t.Fatalf("storage error not surfaced verbatim: %q", body["error"])
	}
}

func TestEntryInput_ToRecordNormalizesLineBreaks(t *testing.T) {
	in := EntryInput{
		Observations: "woke at 3\r\nheadache\rbetter by noon",
		Meals:        "oats\r\nsoup",
	}
	rec, err := in.ToRecord(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ToRecord: %v", err)
	}
	if rec.Observations != "woke at 3\nheadache\nbetter by noon" {
		t.Fatalf("observations = %q", rec.Observations)
	}
	if rec.Meals != "oats\nsoup" {
		t.Fatalf("meals = %q", rec.Meals)
	}

	var buf bytes.Buffer
	tb := models.NewEmptyTable()
	tb.AppendValues(rec.Values())
	if err := services.WriteTableCSV(&buf, tb); err != nil {
		t.Fatalf("WriteTableCSV: %v", err)
	}
	back, err := services.ReadTableCSV(&buf, "mem")
	if err != nil {
		t.Fatalf("ReadTableCSV: %v", err)
	}
	if !reflect.DeepEqual(back.Rows[0], rec.Row()) {
		t.Fatalf("row after round trip = %q, want %q", back.Rows[0], rec.Row())
	}
}
