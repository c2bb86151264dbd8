package models

// FieldKind describes how a column is entered and coerced.
type FieldKind string

const (
	KindDate  FieldKind = "date"
	KindTime  FieldKind = "time"
	KindScale FieldKind = "scale" // integer 0-10
	KindCount FieldKind = "count" // non-negative integer
	KindBool  FieldKind = "bool"
	KindText  FieldKind = "text"
	KindEnum  FieldKind = "enum"
)

// Field keys. The key is the stable API name; Header is what goes in the CSV.
const (
	FieldDate              = "date"
	FieldTime              = "time"
	FieldPain              = "pain"
	FieldFatigue           = "fatigue"
	FieldDizziness         = "dizziness"
	FieldNausea            = "nausea"
	FieldBedtime           = "bedtime"
	FieldWakeTime          = "wake_time"
	FieldSleepQuality      = "sleep_quality"
	FieldNightAwakenings   = "night_awakenings"
	FieldMeals             = "meals"
	FieldFoodTypes         = "food_types"
	FieldPostMealFeeling   = "post_meal_feeling"
	FieldActivityType      = "activity_type"
	FieldActivityDuration  = "activity_duration"
	FieldActivityIntensity = "activity_intensity"
	FieldEnergy            = "energy"
	FieldHydration         = "hydration"
	FieldWeather           = "weather"
	FieldStress            = "stress"
	FieldMenstruation      = "menstruation"
	FieldObservations      = "observations"
)

// Persisted labels for boolean fields.
const (
	BoolYes = "Yes"
	BoolNo  = "No"
)

var (
	PostMealFeelings   = []string{"Good", "Neutral", "Bad"}
	WeatherKinds       = []string{"Sunny", "Cloudy", "Rainy", "Snowy", "Stormy"}
	MenstruationPhases = []string{"No", "Before", "During", "After"}
)

type Field struct {
	Key     string    `json:"key"`
	Header  string    `json:"header"`
	Group   string    `json:"group"`
	Kind    FieldKind `json:"kind"`
	Min     int       `json:"min"`
	Max     int       `json:"max,omitempty"` // 0 = unbounded
	Options []string  `json:"options,omitempty"`
	Default string    `json:"default,omitempty"`
}

// Numeric reports whether cells of this field are coerced to numbers.
func (f Field) Numeric() bool { return f.Kind == KindScale || f.Kind == KindCount }

func scale(key, header, group string) Field {
	return Field{Key: key, Header: header, Group: group, Kind: KindScale, Min: 0, Max: 10, Default: "5"}
}

func count(key, header, group, def string) Field {
	return Field{Key: key, Header: header, Group: group, Kind: KindCount, Min: 0, Default: def}
}

// Schema is the canonical, ordered column list of the symptom table.
var Schema = []Field{
	{Key: FieldDate, Header: "Date", Group: "temporal", Kind: KindDate},
	{Key: FieldTime, Header: "Time", Group: "temporal", Kind: KindTime},

	scale(FieldPain, "Pain (0-10)", "symptoms"),
	scale(FieldFatigue, "Fatigue (0-10)", "symptoms"),
	{Key: FieldDizziness, Header: "Dizziness", Group: "symptoms", Kind: KindBool, Options: []string{BoolYes, BoolNo}, Default: BoolNo},
	{Key: FieldNausea, Header: "Nausea", Group: "symptoms", Kind: KindBool, Options: []string{BoolYes, BoolNo}, Default: BoolNo},

	{Key: FieldBedtime, Header: "Bedtime", Group: "sleep", Kind: KindTime, Default: "23:00:00"},
	{Key: FieldWakeTime, Header: "Wake time", Group: "sleep", Kind: KindTime, Default: "07:00:00"},
	scale(FieldSleepQuality, "Sleep quality (0-10)", "sleep"),
	count(FieldNightAwakenings, "Night awakenings", "sleep", "0"),

	{Key: FieldMeals, Header: "Meals", Group: "diet", Kind: KindText},
	{Key: FieldFoodTypes, Header: "Food types", Group: "diet", Kind: KindText},
	{Key: FieldPostMealFeeling, Header: "Post-meal feeling", Group: "diet", Kind: KindEnum, Options: PostMealFeelings, Default: PostMealFeelings[0]},

	{Key: FieldActivityType, Header: "Activity type", Group: "activity", Kind: KindText},
	count(FieldActivityDuration, "Activity duration (min)", "activity", "0"),
	scale(FieldActivityIntensity, "Activity intensity (0-10)", "activity"),

	scale(FieldEnergy, "Daily energy (0-10)", "energy"),

	count(FieldHydration, "Hydration (glasses/day)", "other", "8"),
	{Key: FieldWeather, Header: "Weather", Group: "other", Kind: KindEnum, Options: WeatherKinds, Default: WeatherKinds[0]},
	scale(FieldStress, "Stress (0-10)", "other"),
	{Key: FieldMenstruation, Header: "Menstruation", Group: "other", Kind: KindEnum, Options: MenstruationPhases, Default: MenstruationPhases[0]},
	{Key: FieldObservations, Header: "Observations", Group: "other", Kind: KindText},
}

var (
	schemaByKey    = map[string]Field{}
	schemaByHeader = map[string]Field{}
)

func init() {
	for _, f := range Schema {
		schemaByKey[f.Key] = f
		schemaByHeader[f.Header] = f
	}
}

// Headers returns the canonical column headers in order.
func Headers() []string {
	out := make([]string, len(Schema))
	for i, f := range Schema {
		out[i] = f.Header
	}
	return out
}

// Lookup resolves a field by key or by header.
func Lookup(name string) (Field, bool) {
	if f, ok := schemaByKey[name]; ok {
		return f, true
	}
	f, ok := schemaByHeader[name]
	return f, ok
}

// HeaderOf maps a key to its header. Unknown names are returned as-is.
func HeaderOf(name string) string {
	if f, ok := Lookup(name); ok {
		return f.Header
	}
	return name
}

// ScaleColumns are the 0-10 self-ratings summarized on the history view.
var ScaleColumns = []string{
	FieldPain, FieldFatigue, FieldSleepQuality, FieldActivityIntensity, FieldEnergy, FieldStress,
}

// ModelColumns are the numeric columns offered to the decision tree.
var ModelColumns = []string{
	FieldPain, FieldFatigue, FieldSleepQuality, FieldActivityIntensity, FieldEnergy, FieldStress,
	FieldActivityDuration, FieldHydration,
}

// TreeTargets are the columns the tree view lets the user predict.
var TreeTargets = []string{FieldFatigue, FieldPain, FieldEnergy, FieldStress}

// TrendColumns are plotted and averaged on the dashboard.
var TrendColumns = []string{FieldPain, FieldFatigue, FieldEnergy, FieldStress}
