package mapstate_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/samirrijal/evoteli/internal/core/domain"
	"github.com/samirrijal/evoteli/internal/core/mapstate"
)

func TestDecode_DefaultMerge(t *testing.T) {
	defaults := mapstate.Project(mapstate.Defaults())

	tests := []struct {
		name    string
		raw     string
		want    domain.Preferences
		wantErr bool
	}{
		{
			name: "all valid",
			raw:  `{"basemap":"terrain","activeLayers":["roofs","heatmap"],"heatmapIntensity":0.5,"show3DBuildings":true}`,
			want: domain.Preferences{Basemap: "terrain", ActiveLayers: []string{"heatmap", "roofs"}, HeatmapIntensity: 0.5, Show3DBuildings: true},
		},
		{
			name:    "not json",
			raw:     `{{{`,
			want:    defaults,
			wantErr: true,
		},
		{
			name:    "json array",
			raw:     `[1,2]`,
			want:    defaults,
			wantErr: true,
		},
		{
			name:    "json null",
			raw:     `null`,
			want:    defaults,
			wantErr: true,
		},
		{
			name:    "only basemap present",
			raw:     `{"basemap":"streets"}`,
			want:    domain.Preferences{Basemap: "streets", ActiveLayers: defaults.ActiveLayers, HeatmapIntensity: 0.8},
			wantErr: true,
		},
		{
			name:    "unknown basemap keeps default, other fields kept",
			raw:     `{"basemap":"watercolor","activeLayers":["driveways"],"heatmapIntensity":0.2,"show3DBuildings":true}`,
			want:    domain.Preferences{Basemap: "satellite", ActiveLayers: []string{"driveways"}, HeatmapIntensity: 0.2, Show3DBuildings: true},
			wantErr: true,
		},
		{
			name:    "wrong types fall back independently",
			raw:     `{"basemap":"terrain","activeLayers":"parcels","heatmapIntensity":"high","show3DBuildings":1}`,
			want:    domain.Preferences{Basemap: "terrain", ActiveLayers: defaults.ActiveLayers, HeatmapIntensity: 0.8},
			wantErr: true,
		},
		{
			name:    "nulls fall back",
			raw:     `{"basemap":null,"activeLayers":null,"heatmapIntensity":null,"show3DBuildings":null}`,
			want:    defaults,
			wantErr: true,
		},
		{
			name: "unknown layers dropped",
			raw:  `{"basemap":"satellite","activeLayers":["parcels","lidar"],"heatmapIntensity":0.8,"show3DBuildings":false}`,
			want: domain.Preferences{Basemap: "satellite", ActiveLayers: []string{"parcels"}, HeatmapIntensity: 0.8},
		},
		{
			name: "empty layer list is valid",
			raw:  `{"basemap":"satellite","activeLayers":[],"heatmapIntensity":0,"show3DBuildings":false}`,
			want: domain.Preferences{Basemap: "satellite", ActiveLayers: []string{}, HeatmapIntensity: 0},
		},
		{
			name: "browser envelope unwrapped",
			raw:  `{"state":{"basemap":"streets","activeLayers":["parcels"],"heatmapIntensity":1,"show3DBuildings":true},"version":0}`,
			want: domain.Preferences{Basemap: "streets", ActiveLayers: []string{"parcels"}, HeatmapIntensity: 1, Show3DBuildings: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mapstate.Decode(tt.raw, mapstate.Defaults())
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, mapstate.Project(got)); diff != "" {
				t.Errorf("preferences mismatch (-want +got):\n%s", diff)
			}
			if got.Viewport != mapstate.DefaultViewport {
				t.Errorf("viewport changed: %+v", got.Viewport)
			}
		})
	}
}

func TestDecode_DoesNotAliasBase(t *testing.T) {
	base := mapstate.Defaults()
	got, _ := mapstate.Decode(`{}`, base)
	got.ActiveLayers.Toggle(domain.LayerParcels)
	if !base.ActiveLayers.Has(domain.LayerParcels) {
		t.Error("decode result shares the base layer set")
	}
}

func TestEncode_RoundTripThroughStore(t *testing.T) {
	ctx := context.Background()
	store := newMockStorage()
	s := mapstate.New(ctx, store)
	s.SetBasemap(ctx, domain.BasemapTerrain)
	s.ToggleLayer(ctx, domain.LayerParcels)
	s.SetHeatmapIntensity(ctx, 0.25)

	reloaded := mapstate.New(ctx, store)
	if diff := cmp.Diff(s.Preferences(), reloaded.Preferences()); diff != "" {
		t.Errorf("reloaded preferences mismatch (-want +got):\n%s", diff)
	}
}

func TestProject_LayersSorted(t *testing.T) {
	st := mapstate.Defaults()
	st.ActiveLayers = domain.NewLayerSet(domain.LayerSolarPotential, domain.LayerDriveways, domain.LayerParcels)
	p := mapstate.Project(st)

	data, err := mapstate.Encode(p)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		ActiveLayers []string `json:"activeLayers"`
	}
	if err := json.Unmarshal([]byte(data), &decoded); err != nil {
		t.Fatal(err)
	}
	want := []string{"driveways", "parcels", "solar-potential"}
	if diff := cmp.Diff(want, decoded.ActiveLayers); diff != "" {
		t.Errorf("layers mismatch (-want +got):\n%s", diff)
	}
}
