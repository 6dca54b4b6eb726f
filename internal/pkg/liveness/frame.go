package liveness

import (
	"errors"
	"image"
	"image/draw"
	"sync"
	"time"
)

var (
	// ErrEndOfStream signals the frame source has no more frames.
	ErrEndOfStream = errors.New("end of frame stream")
	// ErrDeviceUnavailable is fatal to the session: the capture device was lost.
	ErrDeviceUnavailable = errors.New("capture device unavailable")
	// ErrSessionClosed is returned when feeding a cancelled or captured session.
	ErrSessionClosed = errors.New("liveness session is closed")
	// ErrBadFrame is returned for pixel buffers that do not match their declared size.
	ErrBadFrame = errors.New("malformed frame buffer")
)

// FrameSample is one video frame: an RGBA pixel buffer plus the encoded bytes
// it was decoded from. Frames are consumed and discarded, never persisted.
type FrameSample struct {
	Pix        []uint8 // RGBA, 4 bytes per pixel, row-major
	Width      int
	Height     int
	Raw        []byte // original encoded image, returned on capture
	CapturedAt time.Time
}

func (f FrameSample) valid() bool {
	return f.Width > 0 && f.Height > 0 && len(f.Pix) == f.Width*f.Height*4
}

// NewFrameFromImage converts a decoded image into a FrameSample, keeping raw
// as the full-resolution original.
func NewFrameFromImage(img image.Image, raw []byte, capturedAt time.Time) FrameSample {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != b.Dx()*4 {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return FrameSample{
		Pix:        rgba.Pix,
		Width:      b.Dx(),
		Height:     b.Dy(),
		Raw:        raw,
		CapturedAt: capturedAt,
	}
}

// FrameSource yields frames from a capture device until the stream ends.
type FrameSource interface {
	// Next blocks until a frame is available. Returns ErrEndOfStream when the
	// stream is closed, ErrDeviceUnavailable when the device is lost.
	Next() (FrameSample, error)
	Close() error
}

// StreamSource is a channel-backed FrameSource fed by pushed frames, used to
// bridge HTTP frame uploads to a session's processing loop.
type StreamSource struct {
	frames    chan FrameSample
	closed    chan struct{}
	closeOnce sync.Once
}

func NewStreamSource(buffer int) *StreamSource {
	return &StreamSource{
		frames: make(chan FrameSample, buffer),
		closed: make(chan struct{}),
	}
}

// Push hands a frame to the consuming session. Frames pushed after Close are
// rejected with ErrEndOfStream; a full buffer drops the frame silently so a
// slow consumer never blocks the producer.
func (s *StreamSource) Push(frame FrameSample) error {
	select {
	case <-s.closed:
		return ErrEndOfStream
	default:
	}

	select {
	case s.frames <- frame:
		return nil
	case <-s.closed:
		return ErrEndOfStream
	default:
		// Buffer full, skip this frame. The next one carries the same signal.
		return nil
	}
}

func (s *StreamSource) Next() (FrameSample, error) {
	select {
	case frame := <-s.frames:
		return frame, nil
	case <-s.closed:
		// Drain anything pushed before close.
		select {
		case frame := <-s.frames:
			return frame, nil
		default:
			return FrameSample{}, ErrEndOfStream
		}
	}
}

func (s *StreamSource) Close() error {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
	return nil
}
