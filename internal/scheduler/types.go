package scheduler

// TickResult accounts for every reminder evaluated during one tick.
type TickResult struct {
	Scanned   int `json:"scanned"`
	Pending   int `json:"pending"`
	Delivered int `json:"delivered"`
	Missed    int `json:"missed"`
	Skipped   int `json:"skipped"`
	Invalid   int `json:"invalid"`
	Failed    int `json:"failed"`
}
