package models

import "time"

// Recruitment portal identifiers. These match the `source` values used by
// the collectors and the dashboard API.
const (
	SourcePortalA = "portalA"
	SourcePortalB = "portalB"
	SourcePortalC = "portalC"
)

// Sources lists every known portal in stable order.
var Sources = []string{SourcePortalA, SourcePortalB, SourcePortalC}

// KnownSource reports whether s is one of the three recruitment portals.
func KnownSource(s string) bool {
	for _, src := range Sources {
		if s == src {
			return true
		}
	}
	return false
}

// Job category tags used by the per-job-type breakdown rows.
const (
	JobTypeDentist         = "dentist"
	JobTypeDentalHygienist = "dental-hygienist"
	JobTypeDentalAssistant = "dental-assistant"
	JobTypeReceptionist    = "receptionist"
)

// JobTypeOrAll maps the aggregate sentinel (nil) to "all" for cache and
// dedup keys.
func JobTypeOrAll(jobType *string) string {
	if jobType == nil {
		return "all"
	}
	return *jobType
}

// RawDailyRecord is the common shape produced by each portal collector for
// one reporting day, before normalization. Counts are absolute values for
// the day as reported by the portal, not deltas.
type RawDailyRecord struct {
	Date             string `json:"date"` // YYYY-MM-DD
	DisplayCount     int    `json:"display_count"`
	ViewCount        int    `json:"view_count"`
	RedirectCount    int    `json:"redirect_count"`
	ApplicationCount int    `json:"application_count"`
	SearchRank       *int   `json:"search_rank,omitempty"`
}

// CanonicalMetricRow is one (clinic, date, source, jobType) metric row.
// JobType nil means the row is a clinic-wide total rather than a
// per-job-type breakdown.
//
// ScoutReplyCount and InterviewCount are operator-entered: nil means "not
// yet entered for this date", 0 means "entered as zero". The distinction is
// preserved through every read and aggregate path.
type CanonicalMetricRow struct {
	ClinicID         string    `json:"clinic_id"`
	Date             string    `json:"date"` // YYYY-MM-DD
	Source           string    `json:"source"`
	JobType          *string   `json:"job_type"`
	DisplayCount     int       `json:"display_count"`
	ViewCount        int       `json:"view_count"`
	RedirectCount    int       `json:"redirect_count"`
	ApplicationCount int       `json:"application_count"`
	SearchRank       *int      `json:"search_rank"`
	ScoutReplyCount  *int      `json:"scout_reply_count"`
	InterviewCount   *int      `json:"interview_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ScoutMessageRow holds per-day scout message counts for one portal.
// Keyed (clinic, date, source); no per-job-type breakdown exists.
type ScoutMessageRow struct {
	ClinicID   string `json:"clinic_id"`
	Date       string `json:"date"`
	Source     string `json:"source"`
	SentCount  int    `json:"sent_count"`
	ReplyCount int    `json:"reply_count"`
}

// RecruitmentGoal is the hiring target for one (clinic, jobType).
// CurrentCount is maintained externally from the hire log.
type RecruitmentGoal struct {
	ClinicID               string `json:"clinic_id"`
	JobType                string `json:"job_type"`
	TargetCount            int    `json:"target_count"`
	CurrentCount           int    `json:"current_count"`
	ContractStartDate      string `json:"contract_start_date"` // YYYY-MM-DD
	ContractDurationMonths int    `json:"contract_duration_months"`
}

// Hire is one confirmed hire. Append-only: rows are inserted or deleted,
// never updated.
type Hire struct {
	HireID    string    `json:"hire_id"`
	ClinicID  string    `json:"clinic_id"`
	HireDate  string    `json:"hire_date"` // YYYY-MM-DD
	JobType   string    `json:"job_type"`
	Source    string    `json:"source"`
	Channel   string    `json:"channel"`
	Name      string    `json:"name"`
	Memo      string    `json:"memo"`
	CreatedAt time.Time `json:"created_at"`
}
