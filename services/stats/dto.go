package stats

// DayCount is one "most active day" bucket. The date is a short locale day
// string, the same key the original client produced.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Statistics is derived entirely from the flattened POV list on every call.
type Statistics struct {
	Total          int            `json:"total"`
	PlayerCounts   map[string]int `json:"playerCounts"`
	MostActiveDays []DayCount     `json:"mostActiveDays"`
}
