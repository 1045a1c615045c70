package models

// Counters holds one value per devpool bucket
type Counters struct {
	NotAssigned int `json:"notAssigned"`
	Assigned    int `json:"assigned"`
	Completed   int `json:"completed"`
	Total       int `json:"total"`
}

// Statistics is the document published to the devpool repository
type Statistics struct {
	Rewards Counters `json:"rewards"`
	Tasks   Counters `json:"tasks"`
}

// RunResult contains statistics from a sync run
type RunResult struct {
	RunID        string `json:"run_id"`
	Projects     int    `json:"projects"`
	Pairs        int    `json:"pairs"`
	Created      int    `json:"created"`
	Updated      int    `json:"updated"`
	Transitioned int    `json:"transitioned"`
	Skipped      int    `json:"skipped"`
	Errors       int    `json:"errors"`
	DurationMs   int    `json:"duration_ms"`
}
