package companion

import (
	"time"
)

// ActivityState tracks where a voice session is in its lifecycle
type ActivityState string

const (
	ActivityIdle        ActivityState = "idle"
	ActivityActive      ActivityState = "active"
	ActivityCoolingDown ActivityState = "cooling_down"
)

// ActivityUpdate reports what one tick did to the session state
type ActivityUpdate struct {
	State    ActivityState
	Started  bool      // Idle->Active fired this tick
	Boundary bool      // utterance finished this tick
	Segment  []float64 // accumulated audio, set when Boundary
}

// ActivityClassifier turns a per-tick volume reading into session
// boundaries. Silence shorter than the timeout is treated as a pause
// inside one utterance, not the end of it.
type ActivityClassifier struct {
	threshold      float64
	silenceTimeout time.Duration

	state    ActivityState
	deadline time.Time
	segment  []float64
	busy     bool
}

// NewActivityClassifier creates a classifier with the given volume
// threshold and silence timeout
func NewActivityClassifier(threshold float64, silenceTimeout time.Duration) *ActivityClassifier {
	return &ActivityClassifier{
		threshold:      threshold,
		silenceTimeout: silenceTimeout,
		state:          ActivityIdle,
	}
}

// Update advances the state machine by one tick. The caller supplies
// now so transitions are deterministic under test.
func (ac *ActivityClassifier) Update(volume float64, samples []float64, now time.Time) ActivityUpdate {
	switch ac.state {
	case ActivityActive:
		ac.segment = append(ac.segment, samples...)
		if volume <= ac.threshold {
			ac.state = ActivityCoolingDown
			ac.deadline = now.Add(ac.silenceTimeout)
		}

	case ActivityCoolingDown:
		ac.segment = append(ac.segment, samples...)
		if volume > ac.threshold {
			// Pause ended before the deadline; resume without
			// re-firing start-of-segment effects.
			ac.state = ActivityActive
			ac.deadline = time.Time{}
			break
		}
		if !now.Before(ac.deadline) {
			segment := ac.segment
			ac.segment = nil
			ac.state = ActivityIdle
			ac.deadline = time.Time{}
			return ActivityUpdate{State: ActivityIdle, Boundary: true, Segment: segment}
		}

	default: // ActivityIdle
		if volume > ac.threshold && !ac.busy {
			ac.state = ActivityActive
			ac.segment = append(ac.segment, samples...)
			return ActivityUpdate{State: ActivityActive, Started: true}
		}
	}

	return ActivityUpdate{State: ac.state}
}

// SetBusy blocks new sessions from starting while a finished segment
// is still being classified
func (ac *ActivityClassifier) SetBusy(busy bool) {
	ac.busy = busy
}

// Busy reports whether new sessions are currently blocked
func (ac *ActivityClassifier) Busy() bool {
	return ac.busy
}

// State returns the current session state
func (ac *ActivityClassifier) State() ActivityState {
	return ac.state
}

// Reset returns the classifier to idle and drops any partial segment
func (ac *ActivityClassifier) Reset() {
	ac.state = ActivityIdle
	ac.deadline = time.Time{}
	ac.segment = nil
	ac.busy = false
}
