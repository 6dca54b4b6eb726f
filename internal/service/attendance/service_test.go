package attendance

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niosa-ap/attendance-backend-go/internal/domain/attendance"
	"github.com/niosa-ap/attendance-backend-go/internal/domain/settings"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/geo"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/liveness"
)

const (
	testStaffID = "NIOSA-AP-1042"
	testName    = "Adaeze Okafor"

	officeLat = 6.4541
	officeLng = 3.3947
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fakeAttendanceRepo struct {
	mu            sync.Mutex
	records       map[string]*attendance.Attendance
	nextID        int
	forceConflict bool
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]*attendance.Attendance)}
}

func key(staffID, date string) string {
	return staffID + "|" + date
}

func (r *fakeAttendanceRepo) CreateIfAbsent(_ context.Context, att *attendance.Attendance) (*attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.forceConflict {
		return nil, attendance.ErrAlreadyCheckedIn
	}
	k := key(att.StaffID, att.Date)
	if _, exists := r.records[k]; exists {
		return nil, attendance.ErrAlreadyCheckedIn
	}

	r.nextID++
	stored := *att
	stored.ID = fmt.Sprintf("att-%d", r.nextID)
	r.records[k] = &stored

	copied := stored
	return &copied, nil
}

func (r *fakeAttendanceRepo) GetByID(_ context.Context, id string) (*attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, att := range r.records {
		if att.ID == id {
			copied := *att
			return &copied, nil
		}
	}
	return nil, attendance.ErrAttendanceNotFound
}

func (r *fakeAttendanceRepo) GetByStaffAndDate(_ context.Context, staffID, date string) (*attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	att, ok := r.records[key(staffID, date)]
	if !ok {
		return nil, attendance.ErrAttendanceNotFound
	}
	copied := *att
	return &copied, nil
}

func (r *fakeAttendanceRepo) StartOvertime(_ context.Context, id string, start, outTime time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, att := range r.records {
		if att.ID == id {
			if att.Overtime.StartTime != nil {
				return attendance.ErrOvertimeAlreadyStarted
			}
			att.Overtime.StartTime = &start
			att.OutTime = &outTime
			return nil
		}
	}
	return attendance.ErrOvertimeAlreadyStarted
}

func (r *fakeAttendanceRepo) StopOvertime(_ context.Context, id string, end time.Time, hours float64, reviewRequired bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, att := range r.records {
		if att.ID == id {
			if att.Overtime.StartTime == nil || att.Overtime.EndTime != nil {
				return attendance.ErrOvertimeNotStarted
			}
			att.Overtime.EndTime = &end
			att.Overtime.Hours = &hours
			att.Overtime.ReviewRequired = reviewRequired
			return nil
		}
	}
	return attendance.ErrOvertimeNotStarted
}

func (r *fakeAttendanceRepo) ListByStaff(_ context.Context, staffID string, _ attendance.ListFilter) ([]attendance.Attendance, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []attendance.Attendance
	for _, att := range r.records {
		if att.StaffID == staffID {
			items = append(items, *att)
		}
	}
	return items, int64(len(items)), nil
}

func (r *fakeAttendanceRepo) List(_ context.Context, _ attendance.ListFilter) ([]attendance.Attendance, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []attendance.Attendance
	for _, att := range r.records {
		items = append(items, *att)
	}
	return items, int64(len(items)), nil
}

type fakeSettingsRepo struct {
	fence settings.GeoFence
	err   error
}

func (r *fakeSettingsRepo) GetGeoFence(context.Context) (settings.GeoFence, error) {
	if r.err != nil {
		return settings.GeoFence{}, r.err
	}
	return r.fence, nil
}

func (r *fakeSettingsRepo) UpdateGeoFence(_ context.Context, fence settings.GeoFence) (settings.GeoFence, error) {
	r.fence = fence
	return fence, nil
}

type fakeStorage struct {
	mu       sync.Mutex
	uploaded map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploaded: make(map[string][]byte)}
}

func (s *fakeStorage) Upload(_ context.Context, file io.Reader, path string, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	s.uploaded[path] = data
	return path, nil
}

func (s *fakeStorage) Download(_ context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.uploaded[path]
	if !ok {
		return nil, fmt.Errorf("not found: %s", path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStorage) Delete(context.Context, string) error {
	return nil
}

func (s *fakeStorage) Exists(_ context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.uploaded[path]
	return ok, nil
}

func (s *fakeStorage) GetURL(_ context.Context, path string, _ time.Duration) (string, error) {
	return "http://files.test/" + path, nil
}

func authedCtx(t *testing.T, staffID, name string) context.Context {
	t.Helper()
	auth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := auth.Encode(map[string]interface{}{
		"user_id":  "user-1",
		"staff_id": staffID,
		"name":     name,
		"is_admin": false,
		"type":     "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func uniformFrame(w, h int, value uint8, at time.Time) liveness.FrameSample {
	pix := make([]uint8, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i] = value
		pix[i+1] = value
		pix[i+2] = value
		pix[i+3] = 255
	}
	return liveness.FrameSample{Pix: pix, Width: w, Height: h, Raw: []byte("jpeg-bytes"), CapturedAt: at}
}

func partialMotionFrame(w, h int, base uint8, at time.Time) liveness.FrameSample {
	frame := uniformFrame(w, h, base, at)
	// Change 10% of the rows enough to cross the pixel delta threshold.
	changed := h / 10
	for y := 0; y < changed; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			frame.Pix[i] = base + 60
			frame.Pix[i+1] = base + 60
		}
	}
	return frame
}

type fixture struct {
	svc      attendance.AttendanceService
	repo     *fakeAttendanceRepo
	registry *liveness.Registry
	storage  *fakeStorage
	clk      *fakeClock
	ctx      context.Context
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	clk := &fakeClock{now: now}
	repo := newFakeAttendanceRepo()
	registry := liveness.NewRegistry(clk)
	store := newFakeStorage()
	settingsRepo := &fakeSettingsRepo{fence: settings.GeoFence{
		OfficeLatitude:  officeLat,
		OfficeLongitude: officeLng,
		RadiusMeters:    150,
		Enabled:         true,
	}}

	return &fixture{
		svc:      NewAttendanceService(repo, settingsRepo, registry, store, clk),
		repo:     repo,
		registry: registry,
		storage:  store,
		clk:      clk,
		ctx:      authedCtx(t, testStaffID, testName),
	}
}

// capture drives a liveness session to the captured state so the next
// check-in finds a confirmed frame.
func (f *fixture) capture(t *testing.T) {
	t.Helper()

	_, err := f.svc.StartLiveness(f.ctx)
	require.NoError(t, err)

	session, ok := f.registry.Get(testStaffID)
	require.True(t, ok)

	// First frames land inside the warmup period and are discarded.
	base := f.clk.Now()
	f.clk.Set(base.Add(3 * time.Second))
	now := f.clk.Now()

	require.NoError(t, f.registry.Push(testStaffID, uniformFrame(320, 240, 100, now)))
	require.NoError(t, f.registry.Push(testStaffID, partialMotionFrame(320, 240, 100, now.Add(200*time.Millisecond))))

	select {
	case <-session.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("liveness session did not capture in time")
	}
	f.clk.Set(base)
}

func officeLocation() attendance.LocationProvider {
	return attendance.StaticLocation(geo.Coordinate{Latitude: officeLat, Longitude: officeLng})
}

func TestCheckIn_OnTimeIsPresent(t *testing.T) {
	t.Parallel()
	f := newFixture(t, at(10, 5))
	f.capture(t)

	resp, err := f.svc.CheckIn(f.ctx, officeLocation())
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPresent, resp.Status)
	assert.Equal(t, testStaffID, resp.StaffID)
	assert.Equal(t, "2026-03-16", resp.Date)
	assert.Equal(t, "10:05 AM", resp.InTime)
	assert.Nil(t, resp.OutTime)
	assert.NotEmpty(t, resp.PhotoURL)
	assert.Len(t, f.storage.uploaded, 1)

	// The captured frame is consumed.
	assert.Equal(t, 0, f.registry.Count())
}

func TestCheckIn_PastCutoffIsAbsent(t *testing.T) {
	t.Parallel()
	f := newFixture(t, at(10, 45))
	f.capture(t)

	resp, err := f.svc.CheckIn(f.ctx, officeLocation())
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusAbsent, resp.Status)
}

func TestCheckIn_TooEarly(t *testing.T) {
	t.Parallel()
	f := newFixture(t, at(9, 30))
	f.capture(t)

	_, err := f.svc.CheckIn(f.ctx, officeLocation())
	assert.ErrorIs(t, err, attendance.ErrTooEarlyToCheckIn)

	// The confirmed frame must survive a failed attempt.
	assert.Equal(t, 1, f.registry.Count())
}

func TestCheckIn_SecondAttemptSameDay(t *testing.T) {
	t.Parallel()
	f := newFixture(t, at(10, 5))
	f.capture(t)

	_, err := f.svc.CheckIn(f.ctx, officeLocation())
	require.NoError(t, err)

	f.capture(t)
	_, err = f.svc.CheckIn(f.ctx, officeLocation())
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_RacingInsertLosesCleanly(t *testing.T) {
	t.Parallel()
	f := newFixture(t, at(10, 5))
	f.capture(t)

	// Simulate another request winning the insert between the existence
	// check and the write.
	f.repo.forceConflict = true

	_, err := f.svc.CheckIn(f.ctx, officeLocation())
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_OutsideRadius(t *testing.T) {
	t.Parallel()
	f := newFixture(t, at(10, 5))
	f.capture(t)

	// Roughly 1.5 km north of the office.
	farAway := attendance.StaticLocation(geo.Coordinate{Latitude: officeLat + 0.0135, Longitude: officeLng})

	_, err := f.svc.CheckIn(f.ctx, farAway)
	assert.ErrorIs(t, err, attendance.ErrOutsideAllowedRadius)
	assert.Equal(t, 1, f.registry.Count())
}

func TestCheckIn_DisabledFenceAcceptsAnywhere(t *testing.T) {
	t.Parallel()
	f := newFixture(t, at(10, 5))
	f.capture(t)

	svc := f.svc.(*AttendanceServiceImpl)
	svc.settings.(*fakeSettingsRepo).fence.Enabled = false

	elsewhere := attendance.StaticLocation(geo.Coordinate{Latitude: officeLat + 1, Longitude: officeLng + 1})
	resp, err := f.svc.CheckIn(f.ctx, elsewhere)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
}

func TestCheckIn_WithoutLiveness(t *testing.T) {
	t.Parallel()
	f := newFixture(t, at(10, 5))

	_, err := f.svc.CheckIn(f.ctx, officeLocation())
	assert.ErrorIs(t, err, attendance.ErrLivenessNotConfirmed)
}

func TestCheckIn_LocationFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t, at(10, 5))
	f.capture(t)

	_, err := f.svc.CheckIn(f.ctx, attendance.FailedLocation(attendance.ErrLocationPermissionDenied))
	assert.ErrorIs(t, err, attendance.ErrLocationPermissionDenied)
}

func TestOvertime_FullSession(t *testing.T) {
	t.Parallel()
	f := newFixture(t, at(10, 5))
	f.capture(t)

	_, err := f.svc.CheckIn(f.ctx, officeLocation())
	require.NoError(t, err)

	// Too early to start overtime.
	f.clk.Set(at(17, 0))
	_, err = f.svc.StartOvertime(f.ctx)
	assert.ErrorIs(t, err, attendance.ErrShiftNotEnded)

	// Start freezes the regular out time at shift end.
	f.clk.Set(at(18, 30))
	resp, err := f.svc.StartOvertime(f.ctx)
	require.NoError(t, err)
	require.NotNil(t, resp.OutTime)
	assert.Equal(t, "06:00 PM", *resp.OutTime)
	require.NotNil(t, resp.Overtime.StartTime)
	assert.Equal(t, "06:30 PM", *resp.Overtime.StartTime)

	// Double start is rejected.
	_, err = f.svc.StartOvertime(f.ctx)
	assert.ErrorIs(t, err, attendance.ErrOvertimeAlreadyStarted)

	// Stop after two hours.
	f.clk.Set(at(20, 30))
	resp, err = f.svc.StopOvertime(f.ctx)
	require.NoError(t, err)
	require.NotNil(t, resp.Overtime.Hours)
	assert.Equal(t, "2.00", *resp.Overtime.Hours)
	assert.False(t, resp.Overtime.ReviewRequired)

	// Completed sessions are terminal in both directions.
	_, err = f.svc.StartOvertime(f.ctx)
	assert.ErrorIs(t, err, attendance.ErrOvertimeCompleted)
	_, err = f.svc.StopOvertime(f.ctx)
	assert.ErrorIs(t, err, attendance.ErrOvertimeCompleted)
}

func TestOvertime_StopWithoutStart(t *testing.T) {
	t.Parallel()
	f := newFixture(t, at(10, 5))
	f.capture(t)

	_, err := f.svc.CheckIn(f.ctx, officeLocation())
	require.NoError(t, err)

	f.clk.Set(at(19, 0))
	_, err = f.svc.StopOvertime(f.ctx)
	assert.ErrorIs(t, err, attendance.ErrOvertimeNotStarted)
}

func TestToday(t *testing.T) {
	t.Parallel()
	f := newFixture(t, at(10, 5))

	resp, err := f.svc.Today(f.ctx)
	require.NoError(t, err)
	assert.False(t, resp.CheckedIn)
	assert.Nil(t, resp.Attendance)

	f.capture(t)
	_, err = f.svc.CheckIn(f.ctx, officeLocation())
	require.NoError(t, err)

	resp, err = f.svc.Today(f.ctx)
	require.NoError(t, err)
	assert.True(t, resp.CheckedIn)
	assert.False(t, resp.CanStartOvertime)
	require.NotNil(t, resp.Attendance)

	f.clk.Set(at(18, 10))
	resp, err = f.svc.Today(f.ctx)
	require.NoError(t, err)
	assert.True(t, resp.CanStartOvertime)
	assert.False(t, resp.CanStopOvertime)
}
