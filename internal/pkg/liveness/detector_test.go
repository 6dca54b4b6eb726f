package liveness

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.now
}

var testStart = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

// uniformFrame builds a w x h frame filled with a single channel value.
func uniformFrame(w, h int, value uint8, at time.Time) FrameSample {
	pix := make([]uint8, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i] = value
		pix[i+1] = value
		pix[i+2] = value
		pix[i+3] = 255
	}
	return FrameSample{Pix: pix, Width: w, Height: h, Raw: []byte{value}, CapturedAt: at}
}

// withChangedRows returns a copy of frame with the top `rows` rows repainted.
func withChangedRows(frame FrameSample, rows int, value uint8) FrameSample {
	pix := make([]uint8, len(frame.Pix))
	copy(pix, frame.Pix)
	for y := 0; y < rows; y++ {
		for x := 0; x < frame.Width; x++ {
			i := (y*frame.Width + x) * 4
			pix[i] = value
			pix[i+1] = value
			pix[i+2] = value
		}
	}
	out := frame
	out.Pix = pix
	out.Raw = []byte{value}
	return out
}

func afterWarmup() time.Time {
	return testStart.Add(warmupPeriod + time.Second)
}

func newTestSession() *Session {
	return NewSession(&fakeClock{now: testStart})
}

func TestSessionWarmupDiscardsFrames(t *testing.T) {
	s := newTestSession()

	qualified, err := s.Feed(uniformFrame(procWidth, procHeight, 10, testStart))
	if err != nil {
		t.Fatalf("Feed during warm-up: %v", err)
	}
	if qualified {
		t.Fatal("warm-up frame must not qualify")
	}
	if s.State() != StateInitializing {
		t.Errorf("state = %v, want %v", s.State(), StateInitializing)
	}
}

func TestSessionStaticSceneNeverCaptures(t *testing.T) {
	s := newTestSession()
	frame := uniformFrame(procWidth, procHeight, 10, afterWarmup())

	for i := 0; i < 10; i++ {
		qualified, err := s.Feed(frame)
		if err != nil {
			t.Fatalf("Feed: %v", err)
		}
		if qualified {
			t.Fatal("identical frames must never qualify")
		}
	}
	if s.MotionScore() != 0 {
		t.Errorf("motion score of identical frames = %v, want 0", s.MotionScore())
	}
	if s.State() != StateDetecting {
		t.Errorf("state = %v, want %v", s.State(), StateDetecting)
	}
}

func TestSessionQualifyingMotionCaptures(t *testing.T) {
	s := newTestSession()
	base := uniformFrame(procWidth, procHeight, 10, afterWarmup())

	if _, err := s.Feed(base); err != nil {
		t.Fatalf("Feed base: %v", err)
	}

	// 24 of 240 rows repainted: exactly 10% of pixels differ well above the
	// noise threshold.
	moved := withChangedRows(base, 24, 200)
	qualified, err := s.Feed(moved)
	if err != nil {
		t.Fatalf("Feed moved: %v", err)
	}
	if !qualified {
		t.Fatalf("10%% motion must qualify, score = %v", s.MotionScore())
	}
	if s.State() != StateCaptured {
		t.Errorf("state = %v, want %v", s.State(), StateCaptured)
	}

	captured, ok := s.Captured()
	if !ok {
		t.Fatal("captured frame missing")
	}
	if string(captured.Raw) != string(moved.Raw) {
		t.Error("capture must return the qualifying frame's original bytes")
	}
}

func TestSessionGrossMotionRejected(t *testing.T) {
	s := newTestSession()
	base := uniformFrame(procWidth, procHeight, 10, afterWarmup())

	if _, err := s.Feed(base); err != nil {
		t.Fatalf("Feed base: %v", err)
	}

	// 96 of 240 rows repainted: 40% of pixels differ, camera-shake scale.
	shaken := withChangedRows(base, 96, 200)
	qualified, err := s.Feed(shaken)
	if err != nil {
		t.Fatalf("Feed shaken: %v", err)
	}
	if qualified {
		t.Fatalf("40%% motion must be rejected as noise, score = %v", s.MotionScore())
	}
	if s.State() != StateDetecting {
		t.Errorf("state = %v, want %v", s.State(), StateDetecting)
	}
}

func TestSessionBelowThresholdNotCaptured(t *testing.T) {
	s := newTestSession()
	base := uniformFrame(procWidth, procHeight, 10, afterWarmup())

	if _, err := s.Feed(base); err != nil {
		t.Fatalf("Feed base: %v", err)
	}

	// ~1.7% of pixels changed, under the 2% floor.
	still := withChangedRows(base, 4, 200)
	qualified, err := s.Feed(still)
	if err != nil {
		t.Fatalf("Feed still: %v", err)
	}
	if qualified {
		t.Fatalf("sub-threshold motion must not qualify, score = %v", s.MotionScore())
	}
}

func TestSessionDownsamplesLargeFrames(t *testing.T) {
	s := newTestSession()
	base := uniformFrame(640, 480, 10, afterWarmup())

	if _, err := s.Feed(base); err != nil {
		t.Fatalf("Feed base: %v", err)
	}

	moved := withChangedRows(base, 48, 200) // 10% of 480 rows
	qualified, err := s.Feed(moved)
	if err != nil {
		t.Fatalf("Feed moved: %v", err)
	}
	if !qualified {
		t.Fatalf("10%% motion at full resolution must qualify, score = %v", s.MotionScore())
	}
	captured, _ := s.Captured()
	if captured.Width != 640 || captured.Height != 480 {
		t.Errorf("capture must keep full resolution, got %dx%d", captured.Width, captured.Height)
	}
}

func TestSessionCancel(t *testing.T) {
	s := newTestSession()
	s.Cancel()

	if _, err := s.Feed(uniformFrame(procWidth, procHeight, 10, afterWarmup())); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Feed after cancel = %v, want ErrSessionClosed", err)
	}

	select {
	case <-s.Done():
	default:
		t.Error("Done must be closed after cancel")
	}

	// Idempotent.
	s.Cancel()
}

func TestSessionRejectsMalformedFrame(t *testing.T) {
	s := newTestSession()
	bad := FrameSample{Pix: make([]uint8, 10), Width: procWidth, Height: procHeight, CapturedAt: afterWarmup()}
	if _, err := s.Feed(bad); !errors.Is(err, ErrBadFrame) {
		t.Errorf("Feed(malformed) = %v, want ErrBadFrame", err)
	}
}

func TestSessionRunCapturesFromSource(t *testing.T) {
	s := newTestSession()
	src := NewStreamSource(4)

	base := uniformFrame(procWidth, procHeight, 10, afterWarmup())
	if err := src.Push(base); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := src.Push(withChangedRows(base, 24, 200)); err != nil {
		t.Fatalf("Push: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- s.Run(context.Background(), src)
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not finish after a qualifying frame")
	}

	if s.State() != StateCaptured {
		t.Errorf("state = %v, want %v", s.State(), StateCaptured)
	}
}

type deadSource struct{}

func (deadSource) Next() (FrameSample, error) { return FrameSample{}, ErrDeviceUnavailable }
func (deadSource) Close() error               { return nil }

func TestSessionRunDeviceLost(t *testing.T) {
	s := newTestSession()

	err := s.Run(context.Background(), deadSource{})
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("Run with dead source = %v, want ErrDeviceUnavailable", err)
	}

	select {
	case <-s.Done():
	default:
		t.Error("session must be torn down after a device error")
	}
}

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry(&fakeClock{now: testStart})

	s1 := r.Open("NIOSA-AP-0001")
	if r.Count() != 1 {
		t.Fatalf("Count = %d, want 1", r.Count())
	}

	// Reopening replaces and cancels the previous session.
	s2 := r.Open("NIOSA-AP-0001")
	if r.Count() != 1 {
		t.Fatalf("Count after reopen = %d, want 1", r.Count())
	}
	select {
	case <-s1.Done():
	case <-time.After(time.Second):
		t.Fatal("replaced session was not cancelled")
	}

	base := uniformFrame(procWidth, procHeight, 10, afterWarmup())
	if err := r.Push("NIOSA-AP-0001", base); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := r.Push("NIOSA-AP-0001", withChangedRows(base, 24, 200)); err != nil {
		t.Fatalf("Push: %v", err)
	}

	select {
	case <-s2.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not capture pushed frames")
	}

	frame, ok := r.Take("NIOSA-AP-0001")
	if !ok {
		t.Fatal("Take must consume the captured frame")
	}
	if frame.Width != procWidth {
		t.Errorf("unexpected captured frame %dx%d", frame.Width, frame.Height)
	}
	if r.Count() != 0 {
		t.Errorf("Count after Take = %d, want 0", r.Count())
	}

	if err := r.Push("NIOSA-AP-0001", base); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Push without session = %v, want ErrSessionClosed", err)
	}
}

func TestRegistryTakeWithoutCapture(t *testing.T) {
	r := NewRegistry(&fakeClock{now: testStart})
	r.Open("NIOSA-AP-0002")

	if _, ok := r.Take("NIOSA-AP-0002"); ok {
		t.Error("Take before capture must fail and keep the session")
	}
	if r.Count() != 1 {
		t.Errorf("Count = %d, want 1", r.Count())
	}
	r.Close("NIOSA-AP-0002")
	if r.Count() != 0 {
		t.Errorf("Count after Close = %d, want 0", r.Count())
	}
}
