package correction

import "time"

// Field names the single profile attribute a correction may change.
type Field string

const (
	FieldName    Field = "Name"
	FieldPhone   Field = "Phone"
	FieldAddress Field = "Address"
	FieldPhoto   Field = "Photo"
)

func (f Field) Valid() bool {
	switch f {
	case FieldName, FieldPhone, FieldAddress, FieldPhoto:
		return true
	}
	return false
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

// EditWindow is how long an approval stays usable. The window is always
// derived from ApprovedAt at read time; stored status alone never
// grants access.
const EditWindow = 5 * time.Minute

// Request is a staff member's petition to change one profile field.
type Request struct {
	ID          string
	StaffID     string
	UserName    string
	Field       Field
	OldValue    string
	NewValue    string
	Reason      string
	Status      Status
	RequestDate time.Time
	ApprovedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Grant is the derived edit permission for an approved request.
type Grant struct {
	Active           bool
	RemainingSeconds int
}

// Grant reports whether the request's edit window is open at now.
// Only approved requests ever grant; elapsed time is measured from the
// approval stamp.
func (r *Request) Grant(now time.Time) Grant {
	if r.Status != StatusApproved || r.ApprovedAt == nil {
		return Grant{}
	}
	elapsed := now.Sub(*r.ApprovedAt)
	if elapsed >= EditWindow {
		return Grant{}
	}
	remaining := int((EditWindow - elapsed).Seconds())
	if remaining < 1 {
		remaining = 1
	}
	return Grant{Active: true, RemainingSeconds: remaining}
}
