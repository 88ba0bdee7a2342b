package usecases_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/samirrijal/evoteli/internal/core/domain"
	"github.com/samirrijal/evoteli/internal/core/mapstate"
	"github.com/samirrijal/evoteli/internal/core/usecases"
)

func square() *domain.Polygon {
	return domain.NewPolygon([]domain.Position{
		{-84.40, 33.74}, {-84.38, 33.74}, {-84.38, 33.76}, {-84.40, 33.76}, {-84.40, 33.74},
	})
}

func TestSearchParams_ViewportMargin(t *testing.T) {
	st := mapstate.Defaults()
	st.Viewport.Latitude, st.Viewport.Longitude = 40, -100
	st.Filters.City = "Denver"

	f := usecases.SearchParams(st)
	if f.Bounds == nil {
		t.Fatal("expected bounds")
	}
	want := domain.BBox{-101, 39, -99, 41}
	if *f.Bounds != want {
		t.Errorf("bounds = %v, want %v", *f.Bounds, want)
	}
	if f.City != "Denver" {
		t.Errorf("city filter lost: %q", f.City)
	}
	if st.Filters.Bounds != nil {
		t.Error("state filters were mutated")
	}
}

func TestSearchParams_ExplicitBoundsWin(t *testing.T) {
	st := mapstate.Defaults()
	b := domain.BBox{1, 2, 3, 4}
	st.Filters.Bounds = &b
	st.DrawnTerritory = square()

	f := usecases.SearchParams(st)
	if *f.Bounds != b {
		t.Errorf("bounds = %v, want %v", *f.Bounds, b)
	}
	if f.Territory != nil {
		t.Error("drawn territory should not override explicit bounds")
	}
}

func TestSearchParams_DrawnTerritory(t *testing.T) {
	st := mapstate.Defaults()
	st.DrawnTerritory = square()

	f := usecases.SearchParams(st)
	if f.Bounds != nil {
		t.Errorf("unexpected bounds %v", *f.Bounds)
	}
	if diff := cmp.Diff(square(), f.Territory); diff != "" {
		t.Errorf("territory mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchParams_ClampsAtPole(t *testing.T) {
	st := mapstate.Defaults()
	st.Viewport.Latitude, st.Viewport.Longitude = 89.5, 179.5

	f := usecases.SearchParams(st)
	want := domain.BBox{178.5, 88.5, 180, 90}
	if *f.Bounds != want {
		t.Errorf("bounds = %v, want %v", *f.Bounds, want)
	}
}

func TestSnapshotFilters_DropsPaging(t *testing.T) {
	st := mapstate.Defaults()
	st.Filters = domain.PropertyFilters{State: "GA", Limit: ptr(50), Offset: ptr(100)}
	st.DrawnTerritory = square()

	f := usecases.SnapshotFilters(st)
	want := domain.PropertyFilters{State: "GA", Territory: square()}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if st.Filters.Limit == nil {
		t.Error("state filters were mutated")
	}
}
