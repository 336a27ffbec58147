package service

import (
	"sync"
	"time"
)

// FocusSessionSeconds is the length of one deep-work session.
const FocusSessionSeconds = 90 * 60

// FocusService is the countdown for a deep-work session. It ticks down only
// while running and stops by itself at zero. Start while running and Pause
// while stopped are no-ops.
type FocusService struct {
	interval time.Duration

	mu        sync.Mutex
	remaining int
	running   bool
	stop      chan struct{}
}

// NewFocusService builds a stopped, full countdown. The interval is how often
// the remaining time decrements; production uses time.Second.
func NewFocusService(interval time.Duration) *FocusService {
	return &FocusService{
		interval:  interval,
		remaining: FocusSessionSeconds,
	}
}

func (fs *FocusService) Start() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.running || fs.remaining == 0 {
		return
	}
	fs.running = true
	fs.stop = make(chan struct{})
	go fs.run(fs.stop)
}

func (fs *FocusService) Pause() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if !fs.running {
		return
	}
	fs.running = false
	close(fs.stop)
	fs.stop = nil
}

// Reset stops the countdown and restores the full session length.
func (fs *FocusService) Reset() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.running {
		fs.running = false
		close(fs.stop)
		fs.stop = nil
	}
	fs.remaining = FocusSessionSeconds
}

func (fs *FocusService) Snapshot() FocusSnapshot {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return FocusSnapshot{
		RemainingSeconds: fs.remaining,
		Running:          fs.running,
	}
}

func (fs *FocusService) run(stop chan struct{}) {
	ticker := time.NewTicker(fs.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			fs.mu.Lock()
			if !fs.running {
				fs.mu.Unlock()
				return
			}
			fs.remaining--
			if fs.remaining <= 0 {
				fs.remaining = 0
				fs.running = false
				fs.stop = nil
				fs.mu.Unlock()
				return
			}
			fs.mu.Unlock()
		}
	}
}
