package usecases_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/samirrijal/evoteli/internal/adapters/memory"
	"github.com/samirrijal/evoteli/internal/core/domain"
	"github.com/samirrijal/evoteli/internal/core/usecases"
)

func TestSessionService_GetReturnsSameSession(t *testing.T) {
	svc, err := usecases.NewSessionService(memory.NewPreferences(), nil, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	a := svc.Get(ctx, "a")
	if svc.Get(ctx, "a") != a {
		t.Error("expected the same session for the same id")
	}
	if svc.Get(ctx, "b") == a {
		t.Error("expected a different session for a different id")
	}
	if svc.Len() != 2 {
		t.Errorf("expected 2 sessions, got %d", svc.Len())
	}
}

func TestSessionService_InvalidLimit(t *testing.T) {
	if _, err := usecases.NewSessionService(memory.NewPreferences(), nil, 0, nil); err == nil {
		t.Fatal("expected error for zero limit")
	}
}

func TestSessionService_PublishesTransitions(t *testing.T) {
	pub := newMockPublisher()
	svc, err := usecases.NewSessionService(memory.NewPreferences(), pub, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	sess := svc.Get(ctx, "a")
	sess.Store.SetBasemap(ctx, domain.BasemapStreets)
	sess.Store.ClearDrawnTerritory(context.Background())

	if diff := cmp.Diff([]uint64{1, 2}, pub.versions("a")); diff != "" {
		t.Errorf("published versions mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionService_EvictionUnsubscribes(t *testing.T) {
	pub := newMockPublisher()
	svc, err := usecases.NewSessionService(memory.NewPreferences(), pub, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	a := svc.Get(ctx, "a")
	svc.Get(ctx, "b")

	if _, ok := svc.Peek("a"); ok {
		t.Fatal("expected a to be evicted")
	}
	if svc.Len() != 1 {
		t.Errorf("expected 1 session, got %d", svc.Len())
	}

	a.Store.Toggle3DBuildings(ctx)
	if v := pub.versions("a"); len(v) != 0 {
		t.Errorf("evicted session still publishing: %v", v)
	}
}

func TestSessionService_EvictionClosesDone(t *testing.T) {
	svc, err := usecases.NewSessionService(memory.NewPreferences(), nil, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	a := svc.Get(ctx, "a")
	select {
	case <-a.Done():
		t.Fatal("live session reported done")
	default:
	}

	b := svc.Get(ctx, "b")
	select {
	case <-a.Done():
	default:
		t.Fatal("evicted session not marked done")
	}

	svc.Close()
	select {
	case <-b.Done():
	default:
		t.Fatal("session still live after Close")
	}
}

func TestSessionService_PreferencesOutliveSession(t *testing.T) {
	prefs := memory.NewPreferences()
	ctx := context.Background()

	first, err := usecases.NewSessionService(prefs, nil, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	first.Get(ctx, "a").Store.SetBasemap(ctx, domain.BasemapTerrain)
	first.Close()

	second, err := usecases.NewSessionService(prefs, nil, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := second.Get(ctx, "a").Store.Preferences().Basemap; got != domain.BasemapTerrain {
		t.Errorf("expected terrain after reload, got %s", got)
	}
	if got := second.Get(ctx, "b").Store.Preferences().Basemap; got != domain.BasemapSatellite {
		t.Errorf("preferences leaked across sessions: %s", got)
	}
}
