package attendance

import "time"

type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
)

// Shift boundaries in office local time. Arrivals within the grace
// window are Present; anything later is recorded as an absence.
const (
	ShiftStartHour   = 10
	LateCutoffHour   = 10
	LateCutoffMinute = 30
	ShiftEndHour     = 18
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "03:04 PM"
)

// Overtime tracks the optional after-shift session on a daily record.
// Once EndTime is set the session is terminal and can never restart.
type Overtime struct {
	StartTime      *time.Time
	EndTime        *time.Time
	Hours          *float64
	ReviewRequired bool
}

func (o Overtime) Started() bool {
	return o.StartTime != nil
}

func (o Overtime) Completed() bool {
	return o.StartTime != nil && o.EndTime != nil
}

// Attendance is one staff member's record for one calendar day.
// The (StaffID, Date) pair is unique.
type Attendance struct {
	ID        string
	StaffID   string
	UserName  string
	Date      string
	InTime    time.Time
	OutTime   *time.Time
	Status    Status
	Latitude  *float64
	Longitude *float64
	PhotoURL  string
	Overtime  Overtime
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ShiftStart returns 10:00 on the record's day in loc.
func ShiftStart(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), ShiftStartHour, 0, 0, 0, day.Location())
}

// LateCutoff returns 10:30 on the record's day. Arriving at the cutoff
// exactly still counts as Present.
func LateCutoff(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), LateCutoffHour, LateCutoffMinute, 0, 0, day.Location())
}

// ShiftEnd returns 18:00 on the record's day.
func ShiftEnd(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), ShiftEndHour, 0, 0, 0, day.Location())
}
