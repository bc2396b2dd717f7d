package attendance

import (
	"context"
)

// ReconciliationService drives one import batch end to end.
type ReconciliationService interface {
	// ReconcileBatch normalizes, classifies, cross-references, deducts and
	// upserts every row of every file, file by file, row by row. A file that
	// cannot be opened fails only that file; everything else degrades to
	// per-row diagnostics in the returned report.
	ReconcileBatch(ctx context.Context, files []UploadFile, prov Provenance) (RunReport, error)

	// ListAttendance retrieves reconciled facts for the reporting surface.
	ListAttendance(ctx context.Context, filter AttendanceFilter) ([]AttendanceFactResponse, int64, error)
}
