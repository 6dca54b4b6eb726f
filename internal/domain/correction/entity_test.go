package correction

import (
	"testing"
	"time"
)

func TestRequestGrant(t *testing.T) {
	t.Parallel()

	approvedAt := time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		status        Status
		approvedAt    *time.Time
		now           time.Time
		wantActive    bool
		wantRemaining int
	}{
		{
			name:          "freshly approved",
			status:        StatusApproved,
			approvedAt:    &approvedAt,
			now:           approvedAt,
			wantActive:    true,
			wantRemaining: 300,
		},
		{
			name:          "one second before expiry",
			status:        StatusApproved,
			approvedAt:    &approvedAt,
			now:           approvedAt.Add(299 * time.Second),
			wantActive:    true,
			wantRemaining: 1,
		},
		{
			name:       "exactly at expiry",
			status:     StatusApproved,
			approvedAt: &approvedAt,
			now:        approvedAt.Add(300 * time.Second),
		},
		{
			name:       "well past expiry",
			status:     StatusApproved,
			approvedAt: &approvedAt,
			now:        approvedAt.Add(time.Hour),
		},
		{
			name:   "pending never grants",
			status: StatusPending,
			now:    approvedAt,
		},
		{
			name:       "completed never grants",
			status:     StatusCompleted,
			approvedAt: &approvedAt,
			now:        approvedAt.Add(time.Second),
		},
		{
			name:       "expired never grants",
			status:     StatusExpired,
			approvedAt: &approvedAt,
			now:        approvedAt.Add(time.Second),
		},
		{
			name:   "approved without stamp never grants",
			status: StatusApproved,
			now:    approvedAt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Request{Status: tt.status, ApprovedAt: tt.approvedAt}
			grant := req.Grant(tt.now)
			if grant.Active != tt.wantActive {
				t.Fatalf("Grant() active = %v, want %v", grant.Active, tt.wantActive)
			}
			if grant.RemainingSeconds != tt.wantRemaining {
				t.Errorf("Grant() remaining = %d, want %d", grant.RemainingSeconds, tt.wantRemaining)
			}
		})
	}
}

func TestFieldValid(t *testing.T) {
	t.Parallel()

	for _, f := range []Field{FieldName, FieldPhone, FieldAddress, FieldPhoto} {
		if !f.Valid() {
			t.Errorf("Field(%q).Valid() = false, want true", f)
		}
	}
	for _, f := range []Field{"", "Number", "name", "Email"} {
		if f.Valid() {
			t.Errorf("Field(%q).Valid() = true, want false", f)
		}
	}
}
