package stats

type StatsResponse struct {
	TotalUsers  int64  `json:"totalUsers"`
	TodayUsers  int64  `json:"todayUsers"`
	LastUpdated string `json:"lastUpdated"`
}

// ErrorResponse deliberately echoes the cause in Details for operators polling
// the endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}
