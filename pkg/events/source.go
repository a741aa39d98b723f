package events

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/pomodoro/pkg/core"
)

type busSource struct {
	events <-chan core.Event
	cancel func()
	out    chan lifecycle.Event
}

// Source subscribes to pattern and exposes the subscription as a
// lifecycle.Source. The subscription ends when the context given to Start is
// done.
func (b *Bus) Source(pattern string) (lifecycle.Source, error) {
	ch, cancel, err := b.Subscribe(pattern)
	if err != nil {
		return nil, err
	}
	return &busSource{
		events: ch,
		cancel: cancel,
		out:    make(chan lifecycle.Event),
	}, nil
}

func (s *busSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *busSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		defer s.cancel()
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
