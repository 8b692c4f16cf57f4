package model

// Prayer is one row of the prayer table on the schedule page.
type Prayer struct {
	Name   string
	Time   string
	Period string
}

// DoseRow is one dose on the schedule page.
type DoseRow struct {
	Time     string
	Period   string
	Name     string
	Dosage   string
	Status   string
	WithFood bool
}

type SchedulePageData struct {
	City    string
	Date    string
	Iftar   string
	Suhoor  string
	Prayers []Prayer
	Doses   []DoseRow
	Notice  string
}
