package overlay

import (
	"context"
	"fmt"

	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/elpick/picker"
)

// Listen installs the Runtime binding and returns the channel of UI events
// it receives. The channel is closed when ctx is done, the page goes away
// or the overlay is detached.
func (o *Overlay) Listen(ctx context.Context) (<-chan picker.Event, error) {
	if err := (proto.RuntimeAddBinding{Name: BindingName}).Call(o.page); err != nil {
		return nil, fmt.Errorf("overlay: add binding: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	o.mu.Lock()
	o.cancel = cancel
	o.mu.Unlock()

	events := make(chan picker.Event, 64)
	wait := o.page.Context(ctx).EachEvent(func(e *proto.RuntimeBindingCalled) {
		if e.Name != BindingName {
			return
		}
		ev, err := picker.ParseEvent([]byte(e.Payload))
		if err != nil {
			o.logger.Warn("overlay: parse binding payload", "error", err)
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	})

	go func() {
		wait()
		cancel()
		close(events)
	}()
	return events, nil
}
