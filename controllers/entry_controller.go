package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"symptracker/models"
	"symptracker/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EntryController struct {
	Store  services.StorageManager
	Logger *zap.Logger
	Now    func() time.Time
}

func NewEntryController(store services.StorageManager, logger *zap.Logger) *EntryController {
	return &EntryController{Store: store, Logger: logger, Now: time.Now}
}

// EntryInput is the raw form payload. Omitted fields take the form defaults.
type EntryInput struct {
	Date string `json:"date"` // YYYY-MM-DD
	Time string `json:"time"` // HH:MM or HH:MM:SS

	Pain      *int  `json:"pain"`
	Fatigue   *int  `json:"fatigue"`
	Dizziness *bool `json:"dizziness"`
	Nausea    *bool `json:"nausea"`

	Bedtime         string `json:"bedtime"`
	WakeTime        string `json:"wake_time"`
	SleepQuality    *int   `json:"sleep_quality"`
	NightAwakenings *int   `json:"night_awakenings"`

	Meals           string `json:"meals"`
	FoodTypes       string `json:"food_types"`
	PostMealFeeling string `json:"post_meal_feeling"`

	ActivityType      string `json:"activity_type"`
	ActivityDuration  *int   `json:"activity_duration"`
	ActivityIntensity *int   `json:"activity_intensity"`

	Energy *int `json:"energy"`

	Hydration    *int   `json:"hydration"`
	Weather      string `json:"weather"`
	Stress       *int   `json:"stress"`
	Menstruation string `json:"menstruation"`
	Observations string `json:"observations"`

	Extra map[string]string `json:"extra"`
}

func parseClock(s string) (time.Time, error) {
	if t, err := time.Parse(models.ClockLayout, s); err == nil {
		return t, nil
	}
	return time.Parse("15:04", s)
}

// normalizeNewlines stores free text with \n line breaks, the only form a
// CSV read gives back.
func normalizeNewlines(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}

// ToRecord applies the form defaults and converts text fields to their types.
func (in EntryInput) ToRecord(now time.Time) (models.Record, error) {
	rec := models.NewDefaultRecord(now)

	if in.Date != "" {
		d, err := time.Parse(models.DateLayout, in.Date)
		if err != nil {
			return rec, fmt.Errorf("invalid date %q, use YYYY-MM-DD", in.Date)
		}
		rec.Date = d
	}
	clocks := []struct {
		name string
		raw  string
		dst  *time.Time
	}{
		{"time", in.Time, &rec.Time},
		{"bedtime", in.Bedtime, &rec.Bedtime},
		{"wake_time", in.WakeTime, &rec.WakeTime},
	}
	for _, c := range clocks {
		if c.raw == "" {
			continue
		}
		t, err := parseClock(c.raw)
		if err != nil {
			return rec, fmt.Errorf("invalid %s %q, use HH:MM or HH:MM:SS", c.name, c.raw)
		}
		*c.dst = t
	}

	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setInt(&rec.Pain, in.Pain)
	setInt(&rec.Fatigue, in.Fatigue)
	setInt(&rec.SleepQuality, in.SleepQuality)
	setInt(&rec.NightAwakenings, in.NightAwakenings)
	setInt(&rec.ActivityDuration, in.ActivityDuration)
	setInt(&rec.ActivityIntensity, in.ActivityIntensity)
	setInt(&rec.Energy, in.Energy)
	setInt(&rec.Hydration, in.Hydration)
	setInt(&rec.Stress, in.Stress)
	if in.Dizziness != nil {
		rec.Dizziness = *in.Dizziness
	}
	if in.Nausea != nil {
		rec.Nausea = *in.Nausea
	}

	setStr := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	rec.Meals = normalizeNewlines(in.Meals)
	rec.FoodTypes = normalizeNewlines(in.FoodTypes)
	rec.ActivityType = normalizeNewlines(in.ActivityType)
	rec.Observations = normalizeNewlines(in.Observations)
	setStr(&rec.PostMealFeeling, in.PostMealFeeling)
	setStr(&rec.Weather, in.Weather)
	setStr(&rec.Menstruation, in.Menstruation)
	rec.Extra = in.Extra

	return rec, nil
}

// CreateEntry appends the submitted day and persists the table.
func (h *EntryController) CreateEntry(c *gin.Context) {
	var input EntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := input.ToRecord(h.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	table, err := services.Submit(c.Request.Context(), h.Store, rec)
	if err != nil {
		respondError(c, h.Logger, "Failed to save entry", err)
		return
	}

	rows := table.RowMaps()
	c.JSON(http.StatusCreated, gin.H{
		"message": "Entry saved",
		"total":   table.Len(),
		"entry":   rows[len(rows)-1],
	})
}

// ListEntries returns the whole history table.
func (h *EntryController) ListEntries(c *gin.Context) {
	table, err := h.Store.LoadAll(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, "Failed to load entries", err)
		return
	}
	resp := gin.H{
		"columns": table.Columns,
		"rows":    table.RowMaps(),
		"total":   table.Len(),
	}
	if table.Len() == 0 {
		resp["message"] = "No data recorded yet."
	}
	c.JSON(http.StatusOK, resp)
}

// GetSchema describes the entry form: fields, kinds, options and defaults.
func (h *EntryController) GetSchema(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fields": models.Schema,
		"date":   h.Now().Format(models.DateLayout),
		"time":   h.Now().Format(models.ClockLayout),
	})
}
