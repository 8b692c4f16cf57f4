package model

// AnchorTimes is one day's prayer timetable for one coordinate and method.
// Only Fajr (suhoor boundary) and Maghrib (iftar boundary) drive scheduling.
type AnchorTimes struct {
	Fajr    string `json:"fajr"`
	Sunrise string `json:"sunrise"`
	Dhuhr   string `json:"dhuhr"`
	Asr     string `json:"asr"`
	Maghrib string `json:"maghrib"`
	Isha    string `json:"isha"`
	Date    string `json:"date"` // YYYY-MM-DD
}

// Complete reports whether the fields the scheduler consumes are present.
func (a *AnchorTimes) Complete() bool {
	return a != nil && a.Fajr != "" && a.Maghrib != "" && a.Date != ""
}

type CalculationMethod string

const (
	MethodMuslimWorldLeague     CalculationMethod = "MuslimWorldLeague"
	MethodEgyptian              CalculationMethod = "Egyptian"
	MethodKarachi               CalculationMethod = "Karachi"
	MethodUmmAlQura             CalculationMethod = "UmmAlQura"
	MethodDubai                 CalculationMethod = "Dubai"
	MethodMoonsightingCommittee CalculationMethod = "MoonsightingCommittee"
	MethodNorthAmerica          CalculationMethod = "NorthAmerica"
	MethodKuwait                CalculationMethod = "Kuwait"
	MethodQatar                 CalculationMethod = "Qatar"
	MethodSingapore             CalculationMethod = "Singapore"
	MethodTehran                CalculationMethod = "Tehran"
	MethodTurkey                CalculationMethod = "Turkey"

	DefaultMethod = MethodMuslimWorldLeague
)

// methodCodes maps each method to the numeric code the timings service expects.
var methodCodes = map[CalculationMethod]int{
	MethodMuslimWorldLeague:     3,
	MethodEgyptian:              5,
	MethodKarachi:               1,
	MethodUmmAlQura:             4,
	MethodDubai:                 12,
	MethodMoonsightingCommittee: 15,
	MethodNorthAmerica:          2,
	MethodKuwait:                9,
	MethodQatar:                 10,
	MethodSingapore:             11,
	MethodTehran:                7,
	MethodTurkey:                13,
}

// Code returns the numeric method code and whether the method is known.
func (m CalculationMethod) Code() (int, bool) {
	c, ok := methodCodes[m]
	return c, ok
}

func (m CalculationMethod) Valid() bool {
	_, ok := methodCodes[m]
	return ok
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
}
