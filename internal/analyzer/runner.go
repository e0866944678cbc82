package analyzer

import (
	"context"
	"time"

	"pe-insights-go/internal/aggregator"
	"pe-insights-go/internal/logger"
	"pe-insights-go/internal/report"
	"pe-insights-go/internal/store"
	"pe-insights-go/internal/types"
)

// Runner walks an uploaded company list through the classifier and lands the
// finished report in the store. It is launched as a goroutine by the upload
// handler so the HTTP response returns immediately.
type Runner struct {
	store  *store.Store
	client *Client
	log    *logger.Logger
}

func NewRunner(st *store.Store, client *Client) *Runner {
	return &Runner{store: st, client: client, log: logger.New()}
}

// Run analyzes every company sequentially, then writes the report and flips
// the history entry to Completed. Per-company failures are recorded on the row
// and never abort the batch.
func (r *Runner) Run(ctx context.Context, reportID, reportName string, companies []string) {
	log := r.log.WithComponent("runner").WithField("report_id", reportID)
	log.WithField("companies", len(companies)).Info("batch analysis started")
	start := time.Now()

	settings := r.store.Settings()
	peFirms := r.store.PEFirms()

	records := make([]types.CompanyRecord, 0, len(companies))
	for i, company := range companies {
		log.WithField("progress", i+1).WithField("company", company).Info("analyzing company")
		rec, err := r.client.AnalyzeCompany(ctx, settings.LLMAPIKey, company, peFirms)
		if err != nil {
			rec = report.Normalize(types.CompanyRecord{
				DisplayName:       company,
				OwnershipCategory: aggregator.UnknownLabel,
				AnalysisError:     err.Error(),
			})
		}
		records = append(records, rec)
	}

	end := time.Now()
	duration := end.Sub(start).Seconds()
	rep := types.Report{
		Name:                 reportName,
		Records:              report.NormalizeAll(records),
		TotalDurationSeconds: &duration,
		StartTimestamp:       start.Format(time.RFC3339),
		CompletionTimestamp:  end.Format(time.RFC3339),
	}
	if err := r.store.SaveReport(reportID, rep); err != nil {
		log.WithError(err).Error("saving report failed")
		return
	}

	err := r.store.UpdateHistory(reportID, func(e *types.HistoryEntry) {
		e.Status = types.StatusCompleted
		e.CompletedAt = end.Format(time.RFC3339)
		e.DurationSeconds = &duration
	})
	if err != nil {
		log.WithError(err).Error("updating history failed")
		return
	}
	log.WithField("duration_s", duration).Info("batch analysis completed")
}
