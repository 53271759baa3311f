package model

// Prayer is one row on the athan dashboard page.
type Prayer struct {
	Name    string // "FAJR", "DHUHR", ...
	Time    string // "05:12"
	Period  string // "AM" or "PM"
	Enabled bool
}

// AthanPageData feeds the rendered athan dashboard template.
type AthanPageData struct {
	City      string
	Date      string // "AUGUST 5, 2025"
	HijriDate string
	Status    string
	NextKind  string
	Countdown string
	Prayers   []Prayer
}
