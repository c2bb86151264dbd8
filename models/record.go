package models

import (
	"strconv"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04:05"
)

// Record is one day's submission.
type Record struct {
	Date time.Time
	Time time.Time

	Pain      int
	Fatigue   int
	Dizziness bool
	Nausea    bool

	Bedtime         time.Time
	WakeTime        time.Time
	SleepQuality    int
	NightAwakenings int

	Meals           string
	FoodTypes       string
	PostMealFeeling string

	ActivityType      string
	ActivityDuration  int
	ActivityIntensity int

	Energy int

	Hydration    int
	Weather      string
	Stress       int
	Menstruation string
	Observations string

	// Extra holds fields outside the schema; they are stored verbatim.
	Extra map[string]string
}

// NewDefaultRecord returns a record pre-filled the way the entry form is.
func NewDefaultRecord(now time.Time) Record {
	return Record{
		Date:              now,
		Time:              now,
		Pain:              5,
		Fatigue:           5,
		Bedtime:           clock(23, 0),
		WakeTime:          clock(7, 0),
		SleepQuality:      5,
		PostMealFeeling:   PostMealFeelings[0],
		ActivityIntensity: 5,
		Energy:            5,
		Hydration:         8,
		Weather:           WeatherKinds[0],
		Stress:            5,
		Menstruation:      MenstruationPhases[0],
	}
}

func clock(h, m int) time.Time { return time.Date(0, 1, 1, h, m, 0, 0, time.UTC) }

func yesNo(b bool) string {
	if b {
		return BoolYes
	}
	return BoolNo
}

// Values maps every header (plus Extra keys) to its persisted text.
func (r Record) Values() map[string]string {
	itoa := strconv.Itoa
	byKey := map[string]string{
		FieldDate:              r.Date.Format(DateLayout),
		FieldTime:              r.Time.Format(ClockLayout),
		FieldPain:              itoa(r.Pain),
		FieldFatigue:           itoa(r.Fatigue),
		FieldDizziness:         yesNo(r.Dizziness),
		FieldNausea:            yesNo(r.Nausea),
		FieldBedtime:           r.Bedtime.Format(ClockLayout),
		FieldWakeTime:          r.WakeTime.Format(ClockLayout),
		FieldSleepQuality:      itoa(r.SleepQuality),
		FieldNightAwakenings:   itoa(r.NightAwakenings),
		FieldMeals:             r.Meals,
		FieldFoodTypes:         r.FoodTypes,
		FieldPostMealFeeling:   r.PostMealFeeling,
		FieldActivityType:      r.ActivityType,
		FieldActivityDuration:  itoa(r.ActivityDuration),
		FieldActivityIntensity: itoa(r.ActivityIntensity),
		FieldEnergy:            itoa(r.Energy),
		FieldHydration:         itoa(r.Hydration),
		FieldWeather:           r.Weather,
		FieldStress:            itoa(r.Stress),
		FieldMenstruation:      r.Menstruation,
		FieldObservations:      r.Observations,
	}
	out := make(map[string]string, len(byKey)+len(r.Extra))
	for k, v := range byKey {
		out[schemaByKey[k].Header] = v
	}
	for k, v := range r.Extra {
		if _, known := Lookup(k); known {
			continue
		}
		out[k] = v
	}
	return out
}

// Row returns the record's cells in canonical column order.
func (r Record) Row() []string {
	vals := r.Values()
	row := make([]string, len(Schema))
	for i, f := range Schema {
		row[i] = vals[f.Header]
	}
	return row
}
