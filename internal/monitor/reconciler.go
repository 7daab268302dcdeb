package monitor

import (
	"time"

	"argusglue/internal/argus"
)

// minSleep is the floor for any computed sleep duration. The loop must never
// spin with zero delay, even when a deadline is already in the past.
const minSleep = time.Second

// Decide computes the next action for one monitor from a single point-in-time
// observation: the clock snapshot, the signal reading and the set of open
// incidents fetched from the store.
//
// It is a pure function with no hidden state, so a decision made by a freshly
// restarted process is identical to one made by a long-running loop given the
// same store contents. The previous signal identity is read back out of the
// open incident's persisted tags, never from memory.
//
// Transition table:
//
//	no open incident, signal active    -> OpenNew
//	no open incident, signal inactive  -> Idle
//	open matches identity, active      -> Idle
//	open differs in identity, active   -> ResolveThenOpen
//	open incident, signal inactive     -> ResolveOnly
//	more than one open incident        -> InvariantViolationError
func Decide(now time.Time, src Source, sig Signal, open []argus.Incident, poll time.Duration) (Decision, error) {
	if len(open) > 1 {
		ids := make([]int64, 0, len(open))
		for _, inc := range open {
			ids = append(ids, inc.ID)
		}
		return Decision{}, &InvariantViolationError{Monitor: src.Monitor(), IncidentIDs: ids}
	}

	sleep := sleepUntil(now, sig.Deadline, poll)

	if len(open) == 0 {
		if !sig.Active {
			return Decision{Action: ActionIdle, Sleep: sleep, Signal: sig}, nil
		}
		return Decision{Action: ActionOpenNew, Sleep: sleep, Signal: sig}, nil
	}

	prev := open[0]

	if !sig.Active {
		return Decision{Action: ActionResolveOnly, Sleep: sleep, Previous: &prev, Signal: sig}, nil
	}

	// An open incident without a readable identity tag is treated as a
	// changed state: resolving and reopening converges on a well-tagged
	// incident instead of idling on an unrecognizable one.
	prevIdentity, ok := src.Identity(prev)
	if ok && prevIdentity == sig.Identity {
		return Decision{Action: ActionIdle, Sleep: sleep, Signal: sig}, nil
	}

	return Decision{Action: ActionResolveThenOpen, Sleep: sleep, Previous: &prev, Signal: sig}, nil
}

// sleepUntil computes the suspension until the next meaningful check point:
// the signal's deadline when it has one, the poll interval otherwise. Both
// the deadline check and this computation use the same now snapshot.
func sleepUntil(now time.Time, deadline time.Time, poll time.Duration) time.Duration {
	sleep := poll
	if !deadline.IsZero() {
		sleep = deadline.Sub(now)
	}
	if sleep < minSleep {
		sleep = minSleep
	}
	return sleep
}
