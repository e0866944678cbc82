package types

// CompanyRecord is one classified company inside a report. The JSON field names
// mirror the on-disk report format so stored reports round-trip unchanged.
type CompanyRecord struct {
	DisplayName         string   `json:"company_name"`
	OwnershipCategory   string   `json:"ownership_category"`
	Jurisdiction        string   `json:"nation"`
	OwningFirmNames     []string `json:"pe_owner_names"`
	PublicPrivateStatus string   `json:"public_private,omitempty"`
	OwnershipSummary    string   `json:"ownership_summary,omitempty"`
	AnalysisError       string   `json:"error,omitempty"`
}

// Report owns one analyzed batch. Treated as an immutable snapshot once loaded;
// the view layer never mutates it.
type Report struct {
	Name                 string          `json:"report_name"`
	Records              []CompanyRecord `json:"data"`
	TotalDurationSeconds *float64        `json:"analysis_duration_seconds,omitempty"`
	StartTimestamp       string          `json:"analysis_start_time,omitempty"`
	CompletionTimestamp  string          `json:"analysis_end_time,omitempty"`
}

// HistoryEntry is one row in the analysis history, newest first.
type HistoryEntry struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Date            string   `json:"date"`
	Status          string   `json:"status"` // Pending | Completed
	NumCompanies    int      `json:"num_companies"`
	CompletedAt     string   `json:"completed_at,omitempty"`
	DurationSeconds *float64 `json:"analysis_duration_seconds,omitempty"`
}

const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
)

// Settings holds the operator-editable configuration persisted next to reports.
type Settings struct {
	LLMAPIKey string `json:"llm_api_key"`
}
