package trail

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	cfg := NewConfig()
	cfg.FrameInterval = time.Millisecond
	return cfg
}

func TestAnimatorStartStop(t *testing.T) {
	a := NewAnimator(fastConfig(), nil)
	assert.False(t, a.IsRunning())

	require.NoError(t, a.Start())
	assert.True(t, a.IsRunning())
	assert.ErrorIs(t, a.Start(), ErrAlreadyRunning)

	require.NoError(t, a.Stop())
	assert.False(t, a.IsRunning())
	assert.ErrorIs(t, a.Stop(), ErrNotRunning)
}

func TestAnimatorRestart(t *testing.T) {
	a := NewAnimator(fastConfig(), nil)

	require.NoError(t, a.Start())
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, a.Stop())

	require.NoError(t, a.Start())
	assert.True(t, a.IsRunning())
	require.NoError(t, a.Stop())
}

func TestAnimatorDeliversFrames(t *testing.T) {
	var mutex sync.Mutex
	var frames []Frame

	a := NewAnimator(fastConfig(), func(f Frame) {
		mutex.Lock()
		defer mutex.Unlock()
		frames = append(frames, f)
	})
	a.Move(100, 100)

	require.NoError(t, a.Start())
	assert.Eventually(t, func() bool {
		p := a.Positions()
		return distance(p[1], Point{X: 100, Y: 100}) < 1
	}, time.Second, time.Millisecond)
	require.NoError(t, a.Stop())

	mutex.Lock()
	count := len(frames)
	mutex.Unlock()
	require.NotZero(t, count)

	// no frame may arrive once Stop has returned
	time.Sleep(10 * time.Millisecond)
	mutex.Lock()
	defer mutex.Unlock()
	assert.Equal(t, count, len(frames))
	assert.True(t, frames[len(frames)-1].Visible)
}

func TestAnimatorConcurrentPointerUpdates(t *testing.T) {
	a := NewAnimator(fastConfig(), nil)
	require.NoError(t, a.Start())

	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				a.Move(float64(i), float64(j))
				if j%10 == 0 {
					a.Leave()
					a.Enter()
				}
				_ = a.Frame()
			}
		}()
	}
	wg.Wait()

	require.NoError(t, a.Stop())
	assert.Len(t, a.Positions(), DefaultLength+1)
}

func TestAnimatorManualTick(t *testing.T) {
	cfg := NewConfig()
	cfg.Speed = 1
	a := NewAnimator(cfg, nil)
	a.Move(3, 4)

	frame := a.Tick()
	assert.True(t, frame.Visible)
	assert.Equal(t, 3.0, frame.Dots[1].X)
	assert.Equal(t, 4.0, frame.Dots[1].Y)
}
