package domain

// CycleSummary is reported to the coordinator at the end of every cycle.
type CycleSummary struct {
	Uuid         string `json:"uuid"`
	JobsRunning  int    `json:"jobs_running"`
	JobsLaunched int    `json:"jobs_launched"`
}
