package picker

import "context"

// Run drives s from events until the session is torn down, the event
// channel is closed or ctx is cancelled. The last two tear the session down.
func Run(ctx context.Context, s *Session, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			s.Teardown()
			return ctx.Err()

		case <-s.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				s.Teardown()
				return nil
			}
			s.Handle(ctx, ev)

		case <-s.debounce.timerC():
			s.FlushRuleText()

		case <-s.frame.timerC():
			s.Recalc()
		}
	}
}
