package models

// SourceSummary is one portal's share of a monthly summary. Portals define
// "view" differently (one reports page views), so per-source sub-totals are
// always kept alongside the combined totals.
type SourceSummary struct {
	Source                string  `json:"source"`
	TotalDisplayCount     int     `json:"total_display_count"`
	TotalViewCount        int     `json:"total_view_count"`
	TotalRedirectCount    int     `json:"total_redirect_count"`
	TotalApplicationCount int     `json:"total_application_count"`
	ViewRate              float64 `json:"view_rate"`
	ApplicationRate       float64 `json:"application_rate"`
	Abnormal              bool    `json:"abnormal"`
	SearchRank            *int    `json:"search_rank"`
}

// MonthlySummary is the clinic KPI payload for one month.
//
// ScoutReplyTotal/InterviewTotal are nil when MissingManualMetrics is true
// (no operator entry exists for the whole month); otherwise nulls are
// coalesced to 0 in the sums.
type MonthlySummary struct {
	ClinicID              string          `json:"clinic_id"`
	Month                 string          `json:"month"` // YYYY-MM
	JobType               *string         `json:"job_type"`
	TotalDisplayCount     int             `json:"total_display_count"`
	TotalViewCount        int             `json:"total_view_count"`
	TotalRedirectCount    int             `json:"total_redirect_count"`
	TotalApplicationCount int             `json:"total_application_count"`
	ViewRate              float64         `json:"view_rate"`
	ApplicationRate       float64         `json:"application_rate"`
	Abnormal              bool            `json:"abnormal"`
	ScoutSentTotal        int             `json:"scout_sent_total"`
	ScoutReplyMsgTotal    int             `json:"scout_reply_msg_total"`
	ScoutReplyRate        float64         `json:"scout_reply_rate"`
	ScoutReplyTotal       *int            `json:"scout_reply_total"`
	InterviewTotal        *int            `json:"interview_total"`
	MissingManualMetrics  bool            `json:"missing_manual_metrics"`
	Sources               []SourceSummary `json:"sources"`
}

// GoalProgress is the pacing snapshot computed from a RecruitmentGoal at a
// given point in time.
type GoalProgress struct {
	TargetCount            int     `json:"target_count"`
	CurrentCount           int     `json:"current_count"`
	RemainingCount         int     `json:"remaining_count"`
	EndDate                string  `json:"end_date"` // YYYY-MM-DD
	TotalDays              int     `json:"total_days"`
	ElapsedDays            int     `json:"elapsed_days"`
	RemainingDays          int     `json:"remaining_days"`
	ProgressRate           float64 `json:"progress_rate"`
	ExpectedCompletionRate float64 `json:"expected_completion_rate"`
	IsOnTrack              bool    `json:"is_on_track"`
}
