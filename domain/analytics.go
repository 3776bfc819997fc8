package domain

// StatusCounts holds per-status totals over the tasks visible to a user.
type StatusCounts struct {
	Total      int `json:"totalTasks"`
	Completed  int `json:"completedTasks"`
	Pending    int `json:"pendingTasks"`
	InProgress int `json:"inProgressTasks"`
}

// Overview is the analytics summary returned to the dashboard.
type Overview struct {
	StatusCounts
	CompletionRate int `json:"completionRate"`
}

// TrendPoint is one calendar day in a trend series.
type TrendPoint struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// Trends carries the two independent per-day series: tasks created in
// the window and tasks completed in the window. A task completed
// outside the window but created inside it appears only in Created,
// and vice versa.
type Trends struct {
	Period    string       `json:"period"`
	Created   []TrendPoint `json:"creationTrends"`
	Completed []TrendPoint `json:"completionTrends"`
}
