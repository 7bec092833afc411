package domain

type CaseStats struct {
	OpenCount      int64 `json:"open_count"`
	ResolvedCount  int64 `json:"resolved_count"`
	ReportedRecent int64 `json:"reported_recent"`
	Days           int   `json:"days"`
}

type StatsRequest struct {
	Days int `query:"days" validate:"min=1,max=365"`
}
