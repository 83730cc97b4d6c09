package companion

import (
	"sync"
	"time"
)

// EmotionStateMachine rate-limits presentation emotion changes. Each
// applied emotion holds for a minimum dwell; requests landing inside
// the dwell go to a single pending slot (last write wins) that fires
// when the dwell expires. Every applied emotion also schedules an
// auto-return to a resting state. The machine is the only component
// that schedules future work, and Close cancels all of it: no timer
// callback mutates state after teardown.
type EmotionStateMachine struct {
	mu sync.Mutex

	dwell         time.Duration
	sessionActive func() bool
	onChange      func(EmotionState)

	current      Emotion
	since        time.Time
	pending      Emotion
	pendingTimer *time.Timer
	returnTimer  *time.Timer
	closed       bool
}

// NewEmotionStateMachine creates a machine resting at neutral.
// sessionActive is sampled when an auto-return fires, not when it is
// scheduled. onChange is invoked under the machine's lock and must
// not call back into it.
func NewEmotionStateMachine(dwell time.Duration, sessionActive func() bool, onChange func(EmotionState)) *EmotionStateMachine {
	return &EmotionStateMachine{
		dwell:         dwell,
		sessionActive: sessionActive,
		onChange:      onChange,
		current:       EmotionNeutral,
	}
}

// Request asks for an emotion change. Unforced repeats of the current
// emotion are dropped. Inside the dwell window the candidate parks in
// the pending slot; otherwise it applies immediately.
func (m *EmotionStateMachine) Request(candidate Emotion, force bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	if candidate == m.current && !force {
		return
	}

	now := time.Now()
	elapsed := now.Sub(m.since)
	if force || m.since.IsZero() || elapsed >= m.dwell {
		m.applyLocked(candidate, now)
		return
	}

	m.pending = candidate
	if m.pendingTimer != nil {
		m.pendingTimer.Stop()
	}
	m.pendingTimer = time.AfterFunc(m.dwell-elapsed, m.firePending)
}

// Current returns the visible emotion and when it was applied
func (m *EmotionStateMachine) Current() EmotionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return EmotionState{Emotion: m.current, Since: m.since, Pending: m.pending}
}

// Close cancels all scheduled work. The machine ignores every call
// after teardown.
func (m *EmotionStateMachine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	m.cancelTimersLocked()
	m.pending = ""
}

// applyLocked makes candidate visible. Any scheduled pending-fire or
// auto-return belongs to the previous state and is cancelled.
func (m *EmotionStateMachine) applyLocked(candidate Emotion, now time.Time) {
	m.cancelTimersLocked()
	m.pending = ""

	m.current = candidate
	m.since = now

	if m.onChange != nil {
		m.onChange(EmotionState{Emotion: candidate, Since: now})
	}

	m.returnTimer = time.AfterFunc(m.dwell, m.fireReturn)
}

// firePending promotes the pending emotion once the dwell expires
func (m *EmotionStateMachine) firePending() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || m.pending == "" {
		return
	}
	candidate := m.pending
	m.applyLocked(candidate, time.Now())
}

// fireReturn drops back to a resting emotion, picked by the session
// flag at fire time. A candidate parked during the dwell outranks the
// resting state. Stop cannot cancel a callback that already left the
// timer heap, so a callback superseded by a newer apply detects itself
// by the fresh dwell window and bows out.
func (m *EmotionStateMachine) fireReturn() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || time.Since(m.since) < m.dwell {
		return
	}
	m.returnTimer = nil

	if m.pending != "" {
		m.applyLocked(m.pending, time.Now())
		return
	}

	target := EmotionNeutral
	if m.sessionActive != nil && m.sessionActive() {
		target = EmotionListening
	}
	if target == m.current {
		return
	}
	m.applyLocked(target, time.Now())
}

func (m *EmotionStateMachine) cancelTimersLocked() {
	if m.pendingTimer != nil {
		m.pendingTimer.Stop()
		m.pendingTimer = nil
	}
	if m.returnTimer != nil {
		m.returnTimer.Stop()
		m.returnTimer = nil
	}
}
