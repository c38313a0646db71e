package clock

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubSource struct {
	t   time.Time
	err error
}

func (s stubSource) ServerTime(context.Context) (time.Time, error) {
	return s.t, s.err
}

func TestSyncCapturesOffset(t *testing.T) {
	local := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	server := local.Add(4 * time.Minute)

	authority := NewAuthorityWithLocal(stubSource{t: server}, func() time.Time { return local })
	authority.Sync(context.Background())

	if got := authority.Offset(); got != 4*time.Minute {
		t.Fatalf("expected 4m offset, got %v", got)
	}
	if got := authority.Now(); !got.Equal(server) {
		t.Fatalf("expected now %v, got %v", server, got)
	}
}

func TestNowAdvancesAfterSingleSync(t *testing.T) {
	local := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	server := local.Add(-90 * time.Second)

	authority := NewAuthorityWithLocal(stubSource{t: server}, func() time.Time { return local })
	authority.Sync(context.Background())

	// The local clock moves on; the authoritative clock must move with it.
	local = local.Add(10 * time.Minute)
	want := server.Add(10 * time.Minute)
	if got := authority.Now(); !got.Equal(want) {
		t.Fatalf("expected now %v, got %v", want, got)
	}
}

func TestSyncFailureDegradesToLocal(t *testing.T) {
	local := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	authority := NewAuthorityWithLocal(stubSource{err: errors.New("network down")}, func() time.Time { return local })
	authority.Sync(context.Background())

	if got := authority.Offset(); got != 0 {
		t.Fatalf("expected zero offset after failed sync, got %v", got)
	}
	if got := authority.Now(); !got.Equal(local) {
		t.Fatalf("expected local time %v, got %v", local, got)
	}

	// Still advances in real time, not frozen.
	local = local.Add(42 * time.Second)
	if got := authority.Now(); !got.Equal(local) {
		t.Fatalf("expected advanced local time %v, got %v", local, got)
	}
}

func TestSyncFailureResetsStaleOffset(t *testing.T) {
	local := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	source := &switchableSource{t: local.Add(time.Hour)}

	authority := NewAuthorityWithLocal(source, func() time.Time { return local })
	authority.Sync(context.Background())
	if authority.Offset() != time.Hour {
		t.Fatalf("expected 1h offset, got %v", authority.Offset())
	}

	source.err = errors.New("network down")
	authority.Sync(context.Background())
	if authority.Offset() != 0 {
		t.Fatalf("expected offset reset to zero, got %v", authority.Offset())
	}
}

type switchableSource struct {
	t   time.Time
	err error
}

func (s *switchableSource) ServerTime(context.Context) (time.Time, error) {
	return s.t, s.err
}
