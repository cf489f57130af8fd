package trail

import (
	"sync"
	"time"
)

// FrameFunc receives the rendered trail after every tick. It is called
// from the animator goroutine and must not call Stop or IsRunning.
type FrameFunc func(Frame)

// Animator drives a Trail from a repeating frame task. Pointer updates may
// arrive from any goroutine. Stop cancels the pending tick and returns
// only once the task has exited, so no frame is delivered after Stop.
type Animator struct {
	trail    *Trail
	interval time.Duration
	onFrame  FrameFunc

	trailMutex sync.Mutex

	mutex   sync.RWMutex
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewAnimator creates a stopped animator. onFrame may be nil.
func NewAnimator(cfg Config, onFrame FrameFunc) *Animator {
	t := New(cfg)

	return &Animator{
		trail:    t,
		interval: t.Config().FrameInterval,
		onFrame:  onFrame,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins ticking at the configured frame interval.
func (a *Animator) Start() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.running {
		return ErrAlreadyRunning
	}

	a.running = true
	go a.frameLoop(a.stopCh, a.doneCh)

	return nil
}

// Stop cancels the frame task and waits for it to finish.
func (a *Animator) Stop() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if !a.running {
		return ErrNotRunning
	}

	close(a.stopCh)
	<-a.doneCh

	a.running = false

	// Reset channels for potential restart
	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})

	return nil
}

// IsRunning returns true if the frame task is active.
func (a *Animator) IsRunning() bool {
	a.mutex.RLock()
	defer a.mutex.RUnlock()
	return a.running
}

// Config returns the normalized trail configuration.
func (a *Animator) Config() Config {
	a.trailMutex.Lock()
	defer a.trailMutex.Unlock()
	return a.trail.Config()
}

// Move records a pointer move.
func (a *Animator) Move(x, y float64) {
	a.trailMutex.Lock()
	defer a.trailMutex.Unlock()
	a.trail.Move(x, y)
}

// Enter marks the pointer as inside the viewport.
func (a *Animator) Enter() {
	a.trailMutex.Lock()
	defer a.trailMutex.Unlock()
	a.trail.Enter()
}

// Leave marks the pointer as outside the viewport.
func (a *Animator) Leave() {
	a.trailMutex.Lock()
	defer a.trailMutex.Unlock()
	a.trail.Leave()
}

// SetColor changes the dot color of subsequent frames.
func (a *Animator) SetColor(color string) {
	a.trailMutex.Lock()
	defer a.trailMutex.Unlock()
	a.trail.SetColor(color)
}

// Tick advances the trail by one frame outside the frame task. It is
// mostly useful for hosts that own their own refresh schedule.
func (a *Animator) Tick() Frame {
	a.trailMutex.Lock()
	defer a.trailMutex.Unlock()
	a.trail.Tick()
	return a.trail.Frame()
}

// Frame renders the current state without advancing it.
func (a *Animator) Frame() Frame {
	a.trailMutex.Lock()
	defer a.trailMutex.Unlock()
	return a.trail.Frame()
}

// Positions returns a copy of the current points.
func (a *Animator) Positions() []Point {
	a.trailMutex.Lock()
	defer a.trailMutex.Unlock()
	return a.trail.Positions()
}

func (a *Animator) frameLoop(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			frame := a.Tick()
			if a.onFrame != nil {
				a.onFrame(frame)
			}
		}
	}
}
