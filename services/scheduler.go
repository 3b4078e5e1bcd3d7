package services

import (
	"sync"
	"time"
)

// Scheduler runs callbacks after a delay on behalf of the counseling
// service. Cancellation is cooperative: cancelling a task that already
// fired is a no-op, and callbacks re-check session state before mutating
// anything, so a stale timer can never resurrect a closed session.
type Scheduler interface {
	// Schedule runs fn after delay. A second task with the same session
	// and key replaces the first.
	Schedule(sessionID, key string, delay time.Duration, fn func())
	// CancelSession drops every task still queued for the session.
	CancelSession(sessionID string)
	// Stop cancels everything and waits for in-flight callbacks.
	Stop()
}

// TimerScheduler is the production Scheduler, one time.Timer per task in
// a two-level map keyed by session then task key.
type TimerScheduler struct {
	mu      sync.Mutex
	timers  map[string]map[string]*time.Timer
	wg      sync.WaitGroup
	stopped bool
}

func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{timers: map[string]map[string]*time.Timer{}}
}

func (s *TimerScheduler) Schedule(sessionID, key string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	tasks, ok := s.timers[sessionID]
	if !ok {
		tasks = map[string]*time.Timer{}
		s.timers[sessionID] = tasks
	}
	if old, ok := tasks[key]; ok {
		if old.Stop() {
			s.wg.Done()
		}
		delete(tasks, key)
	}
	s.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		defer s.wg.Done()
		s.remove(sessionID, key, t)
		fn()
	})
	tasks[key] = t
}

// remove drops the entry a fired timer left behind, unless it has already
// been replaced by a newer timer under the same key.
func (s *TimerScheduler) remove(sessionID, key string, t *time.Timer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tasks, ok := s.timers[sessionID]; ok && tasks[key] == t {
		delete(tasks, key)
		if len(tasks) == 0 {
			delete(s.timers, sessionID)
		}
	}
}

func (s *TimerScheduler) CancelSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.timers[sessionID] {
		// Stop reports false when the callback already fired; that
		// callback owns its own WaitGroup slot.
		if t.Stop() {
			s.wg.Done()
		}
	}
	delete(s.timers, sessionID)
}

func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for sessionID, tasks := range s.timers {
		for _, t := range tasks {
			if t.Stop() {
				s.wg.Done()
			}
		}
		delete(s.timers, sessionID)
	}
	s.mu.Unlock()
	s.wg.Wait()
}
