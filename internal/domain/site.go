package domain

// ShiftSource is one per-shift route table shown for a site.
type ShiftSource struct {
	Name   string   `json:"name"`
	Sheet  SheetRef `json:"sheet"`
	MapURL string   `json:"map_url,omitempty"`
}

// Site maps a company/site to its master roster and ordered shift tables.
type Site struct {
	Key    string        `json:"key"`
	Name   string        `json:"name"`
	Master SheetRef      `json:"master"`
	Shifts []ShiftSource `json:"shifts"`
}
