package attendance

import (
	"math"
	"time"

	"github.com/niosa-ap/attendance-backend-go/internal/domain/attendance"
)

// Decide resolves the attendance outcome for a check-in attempt at now.
// alreadyMarked short-circuits everything else; a day gets one record.
// Arrivals up to and including the 10:30 cutoff are Present, later
// arrivals are recorded as Absent rather than rejected.
func Decide(now time.Time, alreadyMarked bool) (attendance.Status, error) {
	if alreadyMarked {
		return "", attendance.ErrAlreadyCheckedIn
	}
	if now.Before(attendance.ShiftStart(now)) {
		return "", attendance.ErrTooEarlyToCheckIn
	}
	if !now.After(attendance.LateCutoff(now)) {
		return attendance.StatusPresent, nil
	}
	return attendance.StatusAbsent, nil
}

// OvertimeHours converts an overtime span to hours rounded to two
// decimals. Spans that round to zero or are negative clamp to zero and
// flag the record for review.
func OvertimeHours(start, end time.Time) (hours float64, reviewRequired bool) {
	hours = math.Round(end.Sub(start).Hours()*100) / 100
	if hours <= 0 {
		return 0, true
	}
	return hours, false
}
