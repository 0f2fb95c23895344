package orm

import (
	"context"
	"time"
)

// Clock provides the current time. Implementations can return fixed
// times for deterministic testing.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

type clockKey struct{}

// WithClock returns a child context carrying the given Clock.
// Create and CreateAll use this Clock instead of time.Now() when
// auto-setting timestamp fields.
func WithClock(ctx context.Context, c Clock) context.Context {
	return context.WithValue(ctx, clockKey{}, c)
}

// now returns the current UTC time from the Clock in ctx, or from
// time.Now() if no Clock is present.
func now(ctx context.Context) time.Time {
	if c, ok := ctx.Value(clockKey{}).(Clock); ok {
		return c.Now().UTC()
	}
	return time.Now().UTC()
}
