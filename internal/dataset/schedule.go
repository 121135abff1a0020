package dataset

import "time"

// atusReleaseMonth is when BLS publishes the annual ATUS news release.
const atusReleaseMonth = time.July

// AnnualAfter returns true if a sync is needed for an annual dataset
// that releases after the given month. Syncs once per year after the
// release month.
func AnnualAfter(now time.Time, lastSync *time.Time, releaseMonth time.Month) bool {
	if lastSync == nil {
		return true
	}
	releaseDate := time.Date(now.Year(), releaseMonth, 1, 0, 0, 0, 0, time.UTC)
	return now.After(releaseDate) && lastSync.Before(releaseDate)
}
