package liveness

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/niosa-ap/attendance-backend-go/internal/pkg/clock"
)

// State is the lifecycle phase of a liveness session.
type State string

const (
	StateInitializing State = "initializing"
	StateReady        State = "ready"
	StateDetecting    State = "detecting"
	StateCaptured     State = "captured"
)

const (
	// Frames are downsampled to this resolution before diffing.
	procWidth  = 320
	procHeight = 240

	// Summed RGB delta (0-765 scale) above which a pixel counts as changed.
	pixelDeltaThreshold = 100

	// Motion percent window that qualifies as live movement. Below is a
	// static scene (a photo held up), at or above is gross motion (the
	// whole camera moving).
	minMotionPercent = 2.0
	maxMotionPercent = 30.0

	// Frames arriving during warm-up are discarded so auto-exposure settles.
	warmupPeriod = 2 * time.Second
)

// Session runs the motion-based liveness check for one capture flow. It holds
// exactly one previous-frame slot, replaced on every processed frame, and is
// terminal once a frame qualifies. Captured liveness is a cheap heuristic
// against submitted still images, not a biometric control.
type Session struct {
	mu          sync.Mutex
	clk         clock.Clock
	state       State
	warmupUntil time.Time
	prev        []uint8 // downsampled RGBA of the previous frame
	motionScore float64
	captured    *FrameSample
	done        chan struct{}
	closed      bool
}

func NewSession(clk clock.Clock) *Session {
	return &Session{
		clk:         clk,
		state:       StateInitializing,
		warmupUntil: clk.Now().Add(warmupPeriod),
		done:        make(chan struct{}),
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// MotionScore returns the motion percent of the last processed frame pair.
func (s *Session) MotionScore() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.motionScore
}

// Captured returns the accepted full-resolution frame once the session has
// reached StateCaptured.
func (s *Session) Captured() (FrameSample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.captured == nil {
		return FrameSample{}, false
	}
	return *s.captured, true
}

// Done is closed when the session reaches a terminal condition: a qualifying
// capture or cancellation.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Cancel tears the session down from any state. Idempotent.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finishLocked()
}

func (s *Session) finishLocked() {
	if s.closed {
		return
	}
	s.closed = true
	s.prev = nil
	close(s.done)
}

// Feed processes one incoming frame. It reports true when the frame qualified
// as a live capture, transitioning the session to StateCaptured.
func (s *Session) Feed(frame FrameSample) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrSessionClosed
	}
	if !frame.valid() {
		return false, ErrBadFrame
	}

	switch s.state {
	case StateInitializing:
		if frame.CapturedAt.Before(s.warmupUntil) {
			return false, nil
		}
		s.state = StateReady
		fallthrough
	case StateReady:
		s.state = StateDetecting
	}

	ds := downsample(frame)

	if s.prev == nil {
		s.prev = ds
		return false, nil
	}

	s.motionScore = motionPercent(s.prev, ds)
	s.prev = ds

	if s.motionScore > minMotionPercent && s.motionScore < maxMotionPercent {
		captured := frame
		s.captured = &captured
		s.state = StateCaptured
		s.finishLocked()
		return true, nil
	}

	return false, nil
}

// Run drives the session from a frame source until capture, cancellation, or
// the source ends. The source is always closed on return so the capture
// device is released.
func (s *Session) Run(ctx context.Context, src FrameSource) error {
	defer src.Close()

	for {
		select {
		case <-ctx.Done():
			s.Cancel()
			return ctx.Err()
		case <-s.done:
			return nil
		default:
		}

		frame, err := src.Next()
		if err != nil {
			if errors.Is(err, ErrEndOfStream) {
				return nil
			}
			s.Cancel()
			return fmt.Errorf("frame source failed: %w", err)
		}

		qualified, err := s.Feed(frame)
		if err != nil {
			if errors.Is(err, ErrSessionClosed) {
				return nil
			}
			return err
		}
		if qualified {
			return nil
		}
	}
}

// downsample maps the frame to procWidth x procHeight RGBA via nearest
// neighbour. Cost control only; fidelity does not matter for a diff.
func downsample(frame FrameSample) []uint8 {
	if frame.Width == procWidth && frame.Height == procHeight {
		out := make([]uint8, len(frame.Pix))
		copy(out, frame.Pix)
		return out
	}

	out := make([]uint8, procWidth*procHeight*4)
	for y := 0; y < procHeight; y++ {
		srcY := y * frame.Height / procHeight
		for x := 0; x < procWidth; x++ {
			srcX := x * frame.Width / procWidth
			si := (srcY*frame.Width + srcX) * 4
			di := (y*procWidth + x) * 4
			out[di] = frame.Pix[si]
			out[di+1] = frame.Pix[si+1]
			out[di+2] = frame.Pix[si+2]
			out[di+3] = frame.Pix[si+3]
		}
	}
	return out
}

// motionPercent counts pixels whose summed RGB delta against the previous
// frame exceeds the noise threshold, as a percentage of all pixels.
func motionPercent(prev, cur []uint8) float64 {
	differing := 0
	for i := 0; i < len(cur); i += 4 {
		d := absDiff(cur[i], prev[i]) + absDiff(cur[i+1], prev[i+1]) + absDiff(cur[i+2], prev[i+2])
		if d > pixelDeltaThreshold {
			differing++
		}
	}
	total := len(cur) / 4
	return float64(differing) / float64(total) * 100
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
