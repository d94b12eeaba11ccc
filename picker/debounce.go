package picker

import "time"

// debouncer is a single-slot timer driven from the session loop.
//
// With restart set, every arm pushes the deadline back (rule text edits).
// Without it, the first arm of a window wins and later ones coalesce into
// it (layout recomputation once per frame).
type debouncer struct {
	window  time.Duration
	restart bool
	timer   *time.Timer
	timerCh <-chan time.Time
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{window: window, restart: true}
}

func newFrameClock(interval time.Duration) *debouncer {
	return &debouncer{window: interval}
}

// arm schedules a fire.
func (d *debouncer) arm() {
	if d.timer != nil {
		if !d.restart {
			return
		}
		d.timer.Stop()
	}
	d.timer = time.NewTimer(d.window)
	d.timerCh = d.timer.C
}

// pending reports whether a fire is scheduled.
func (d *debouncer) pending() bool { return d.timer != nil }

// timerC returns the channel that fires when the window expires. It is nil
// while nothing is scheduled.
func (d *debouncer) timerC() <-chan time.Time {
	return d.timerCh
}

// stop cancels any scheduled fire.
func (d *debouncer) stop() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
		d.timerCh = nil
	}
}
