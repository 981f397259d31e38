package animation

import (
	"image"
	"math"
)

// State is the playback state of an Instance.
type State int

const (
	// StateIdle is a freshly created or reset instance that has not been
	// advanced yet.
	StateIdle State = iota
	StatePlaying
	StatePaused
	// StateStoppedAtEnd is a non-looping animation parked on its last frame.
	StateStoppedAtEnd
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateStoppedAtEnd:
		return "stopped"
	default:
		return "unknown"
	}
}

// FrameHandler is called when an Instance enters a new frame.
type FrameHandler func(inst *Instance, frame int)

// FinishHandler is called when a non-looping Instance stops on its last
// frame.
type FinishHandler func(inst *Instance)

// Instance is a playback cursor over one Animation. It borrows the
// Animation and never mutates it, so many instances may share one.
//
// Time is accumulated rather than derived from a wall clock: a large dt
// burns through as many frame boundaries as it covers.
type Instance struct {
	anim     *Animation
	current  int
	elapsed  int
	playing  bool
	advanced bool
	stopped  bool

	onFrame  []FrameHandler
	onFinish []FinishHandler
}

// NewInstance creates an instance bound to a, positioned on the first frame
// and playing.
func NewInstance(a *Animation) *Instance {
	inst := &Instance{anim: a}
	inst.Reset()
	return inst
}

// Animation returns the bound animation.
func (i *Instance) Animation() *Animation { return i.anim }

// Index returns the current frame index.
func (i *Instance) Index() int { return i.current }

// Elapsed returns the milliseconds spent on the current frame.
func (i *Instance) Elapsed() int { return i.elapsed }

// Playing reports whether Advance moves the cursor.
func (i *Instance) Playing() bool { return i.playing }

// State returns the current playback state.
func (i *Instance) State() State {
	switch {
	case i.stopped:
		return StateStoppedAtEnd
	case !i.playing:
		return StatePaused
	case !i.advanced:
		return StateIdle
	default:
		return StatePlaying
	}
}

// Play resumes playback without moving the cursor. An instance stopped at
// its end stays on the last frame and stops again once that frame's
// duration elapses; use Reset to replay from the start.
func (i *Instance) Play() {
	i.playing = true
	i.stopped = false
}

// Pause halts playback without moving the cursor.
func (i *Instance) Pause() { i.playing = false }

// Reset rewinds to the first frame and starts playing.
func (i *Instance) Reset() {
	i.current = 0
	i.elapsed = 0
	i.playing = true
	i.advanced = false
	i.stopped = false
}

// SetAnimation binds a different animation and resets.
func (i *Instance) SetAnimation(a *Animation) {
	i.anim = a
	i.Reset()
}

// Seek jumps to frame index with no elapsed time. Out of range indices are
// clamped. Playback state is unchanged.
func (i *Instance) Seek(index int) {
	n := i.anim.Len()
	if n == 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= n {
		index = n - 1
	}
	i.current = index
	i.elapsed = 0
	i.stopped = false
}

// OnFrame registers h to run whenever Advance enters a new frame.
func (i *Instance) OnFrame(h FrameHandler) {
	if h != nil {
		i.onFrame = append(i.onFrame, h)
	}
}

// OnFinish registers h to run when a non-looping animation stops at its end.
func (i *Instance) OnFinish(h FinishHandler) {
	if h != nil {
		i.onFinish = append(i.onFinish, h)
	}
}

// Advance moves playback forward by dtMs milliseconds. It does nothing when
// paused, when the animation has no frames or when dtMs is negative.
//
// A looping animation drops whole cycles before stepping, so the cost of a
// call is bounded by the frame count however large dtMs is. OnFrame fires
// only for the frames entered in the final partial cycle.
//
// When a non-looping animation reaches its end the cursor parks on the last
// frame, playback stops and whatever time was left in dtMs is dropped; a
// later Play does not carry it over.
func (i *Instance) Advance(dtMs int) {
	n := i.anim.Len()
	if !i.playing || n == 0 || dtMs < 0 {
		return
	}
	i.clamp(n)
	i.advanced = true
	if dtMs > math.MaxInt-i.elapsed {
		dtMs = math.MaxInt - i.elapsed
	}
	i.elapsed += dtMs
	if i.anim.Loop {
		if total := i.anim.TotalDuration(); total > 0 && i.elapsed >= total {
			i.elapsed %= total
		}
	}
	for i.elapsed >= i.anim.frames[i.current].duration {
		i.elapsed -= i.anim.frames[i.current].duration
		i.current++
		if i.current >= n {
			if !i.anim.Loop {
				i.current = n - 1
				i.elapsed = 0
				i.playing = false
				i.stopped = true
				i.emitFinish()
				return
			}
			i.current = 0
		}
		i.emitFrame()
	}
}

// CurrentFrame returns the frame under the cursor, or nil when the
// animation has no frames.
func (i *Instance) CurrentFrame() *Frame {
	n := i.anim.Len()
	if n == 0 {
		return nil
	}
	i.clamp(n)
	return i.anim.frames[i.current]
}

// CurrentImage returns the image of the frame under the cursor, or nil when
// the animation has no frames.
func (i *Instance) CurrentImage() *image.NRGBA {
	if f := i.CurrentFrame(); f != nil {
		return f.Image
	}
	return nil
}

// clamp pulls a stale cursor back inside the frame list after the
// animation shrank underneath it.
func (i *Instance) clamp(n int) {
	if i.current >= n {
		i.current = n - 1
		i.elapsed = 0
	}
	if i.current < 0 {
		i.current = 0
	}
}

func (i *Instance) emitFrame() {
	for _, h := range i.onFrame {
		h(i, i.current)
	}
}

func (i *Instance) emitFinish() {
	for _, h := range i.onFinish {
		h(i)
	}
}
