package repository

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"social-feed/internal/csvstore"
	"social-feed/internal/domain"
)

const (
	ReportTargetPost    = "post"
	ReportTargetComment = "comment"
)

type ReportRepository struct {
	store *csvstore.Store
}

func NewReportRepository(store *csvstore.Store) *ReportRepository {
	return &ReportRepository{store: store}
}

// Create appends an unresolved report. Target type must be post or comment;
// the reason must be non-blank after trimming.
func (r *ReportRepository) Create(targetType, targetID, reporterID, reason string) (*domain.Report, error) {
	targetType = strings.ToLower(targetType)
	if targetType != ReportTargetPost && targetType != ReportTargetComment {
		return nil, ErrInvalidReportTarget
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrEmptyReason
	}

	report := &domain.Report{
		ID:         uuid.NewString(),
		TargetType: targetType,
		TargetID:   targetID,
		ReporterID: reporterID,
		Reason:     reason,
		CreatedAt:  nowISO(),
	}
	row := csvstore.Row{
		"report_id":   report.ID,
		"target_type": report.TargetType,
		"target_id":   report.TargetID,
		"reporter_id": report.ReporterID,
		"reason":      report.Reason,
		"created_at":  report.CreatedAt,
		"resolved":    boolString(false),
	}
	if err := r.store.Append(csvstore.Reports, row); err != nil {
		return nil, err
	}
	return report, nil
}

func (r *ReportRepository) GetByID(reportID string) (*domain.Report, error) {
	rows, err := r.store.Load(csvstore.Reports)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row["report_id"] == reportID {
			rep := reportFromRow(row)
			return &rep, nil
		}
	}
	return nil, ErrReportNotFound
}

// ListOpen returns unresolved reports, newest first.
func (r *ReportRepository) ListOpen() ([]domain.Report, error) {
	rows, err := r.store.Load(csvstore.Reports)
	if err != nil {
		return nil, err
	}
	reports := make([]domain.Report, 0)
	for _, row := range rows {
		if !parseBool(row["resolved"]) {
			reports = append(reports, reportFromRow(row))
		}
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt > reports[j].CreatedAt
	})
	return reports, nil
}

// Resolve flips the resolved flag for the matching report id. Reports are
// never physically deleted; unknown ids are a no-op.
func (r *ReportRepository) Resolve(reportID string) error {
	return r.store.Update(csvstore.Reports, func(rows []csvstore.Row) ([]csvstore.Row, error) {
		next := make([]csvstore.Row, 0, len(rows))
		for _, row := range rows {
			if row["report_id"] == reportID {
				row = row.Clone()
				row["resolved"] = boolString(true)
			}
			next = append(next, row)
		}
		return next, nil
	})
}

func reportFromRow(row csvstore.Row) domain.Report {
	return domain.Report{
		ID:         row["report_id"],
		TargetType: row["target_type"],
		TargetID:   row["target_id"],
		ReporterID: row["reporter_id"],
		Reason:     row["reason"],
		CreatedAt:  row["created_at"],
		Resolved:   parseBool(row["resolved"]),
	}
}
