package auth

import (
	"context"
	"time"
)

// DefaultRequestTimeout bounds the store calls of a single flow invocation.
const DefaultRequestTimeout = 10 * time.Second

type flowDeps struct {
	store     UserStore
	hasher    PasswordHasher
	tokens    TokenService
	logger    Logger
	activity  ActivitySink
	timeout   time.Duration
	useHashid bool
	now       func() time.Time
}

// FlowOption configures the registration and login handlers.
type FlowOption func(*flowDeps)

// WithFlowLogger sets the logger.
func WithFlowLogger(logger Logger) FlowOption {
	return func(d *flowDeps) {
		d.logger = logger
	}
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func WithActivitySink(sink ActivitySink) FlowOption {
	return func(d *flowDeps) {
		d.activity = sink
	}
}

// WithRequestTimeout sets the caller budget applied to store calls.
func WithRequestTimeout(timeout time.Duration) FlowOption {
	return func(d *flowDeps) {
		d.timeout = timeout
	}
}

// WithHashidIDs derives user ids deterministically from the email, so a
// repeated registration also collides on the primary key.
func WithHashidIDs(enabled bool) FlowOption {
	return func(d *flowDeps) {
		d.useHashid = enabled
	}
}

func newFlowDeps(store UserStore, hasher PasswordHasher, tokens TokenService, opts ...FlowOption) flowDeps {
	if store == nil {
		panic("AUTH: flow configuration: UserStore is required.")
	}
	if hasher == nil {
		panic("AUTH: flow configuration: PasswordHasher is required.")
	}
	if tokens == nil {
		panic("AUTH: flow configuration: TokenService is required.")
	}

	d := flowDeps{
		store:   store,
		hasher:  hasher,
		tokens:  tokens,
		timeout: DefaultRequestTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&d)
		}
	}
	d.logger = normalizeLogger(d.logger)
	d.activity = normalizeActivitySink(d.activity)

	return d
}

func (d flowDeps) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.timeout)
}

func (d flowDeps) emit(ctx context.Context, eventType ActivityEventType, userID, email, reason string) {
	event := ActivityEvent{
		EventType:  eventType,
		UserID:     userID,
		Email:      email,
		Reason:     reason,
		OccurredAt: d.now(),
	}
	if err := d.activity.Record(ctx, event); err != nil {
		d.logger.Warn("activity sink record error", "error", err)
	}
}
