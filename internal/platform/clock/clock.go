package clock

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Clock is the read side: anything that can report the current time.
type Clock interface {
	Now() time.Time
}

// System reads the local machine clock directly. The server process is the
// time authority, so it never applies an offset.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always reports the same instant. Test use only.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

// Source fetches the authoritative server time once per sync.
type Source interface {
	ServerTime(ctx context.Context) (time.Time, error)
}

// Authority tracks the offset between an untrusted local clock and the
// server clock. Construct one per process and inject it; the offset is
// written by Sync and read by every Now call.
type Authority struct {
	source Source
	local  func() time.Time

	// offset in nanoseconds, accessed atomically. Zero until a sync succeeds.
	offsetNanos atomic.Int64
}

func NewAuthority(source Source) *Authority {
	return &Authority{source: source, local: time.Now}
}

// NewAuthorityWithLocal substitutes the local clock. Test use only.
func NewAuthorityWithLocal(source Source, local func() time.Time) *Authority {
	return &Authority{source: source, local: local}
}

// Sync fetches the server time and captures offset = serverTime - localAtReceipt.
// A failed fetch degrades to offset zero rather than blocking attendance on a
// transient outage; the error is logged, never returned.
func (a *Authority) Sync(ctx context.Context) {
	serverTime, err := a.source.ServerTime(ctx)
	if err != nil {
		a.offsetNanos.Store(0)
		slog.Warn("clock sync failed, falling back to local time", "err", err)
		return
	}
	offset := serverTime.Sub(a.local())
	a.offsetNanos.Store(int64(offset))
	slog.Info("clock synced", "offsetMs", offset.Milliseconds())
}

// Now returns the authoritative current time: the local clock shifted by the
// captured offset, recomputed on every call so the clock keeps advancing.
func (a *Authority) Now() time.Time {
	return a.local().Add(time.Duration(a.offsetNanos.Load()))
}

// Offset reports the currently applied correction.
func (a *Authority) Offset() time.Duration {
	return time.Duration(a.offsetNanos.Load())
}
