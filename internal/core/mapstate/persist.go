package mapstate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samirrijal/evoteli/internal/core/domain"
)

// Project maps the full state onto the persisted subset. It is the only place
// that decides which fields reach storage.
func Project(s domain.MapState) domain.Preferences {
	return domain.Preferences{
		Basemap:          s.Basemap,
		ActiveLayers:     s.ActiveLayers.Sorted(),
		HeatmapIntensity: s.HeatmapIntensity,
		Show3DBuildings:  s.Show3DBuildings,
	}
}

// Encode serialises preferences for storage.
func Encode(p domain.Preferences) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode preferences: %w", err)
	}
	return string(data), nil
}

// Decode merges a stored payload over base. Each field is recovered on its own:
// a missing or invalid field keeps the value from base and is reported in the
// returned error, while valid fields are applied. Unknown layer identifiers in
// an otherwise valid list are dropped.
func Decode(raw string, base domain.MapState) (domain.MapState, error) {
	out := base.Clone()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return out, fmt.Errorf("decode preferences: %w", err)
	}
	if fields == nil {
		return out, errors.New("decode preferences: payload is not an object")
	}
	// Payloads written by the browser dashboard are wrapped as {"state": {...}, "version": n}.
	if inner, ok := fields["state"]; ok {
		if _, flat := fields["basemap"]; !flat {
			var unwrapped map[string]json.RawMessage
			if err := json.Unmarshal(inner, &unwrapped); err == nil && unwrapped != nil {
				fields = unwrapped
			}
		}
	}

	var errs []error

	if msg, ok := fields["basemap"]; ok {
		var b domain.BasemapStyle
		if err := json.Unmarshal(msg, &b); err != nil || !b.Valid() {
			errs = append(errs, fmt.Errorf("basemap: invalid value %s", msg))
		} else {
			out.Basemap = b
		}
	} else {
		errs = append(errs, errors.New("basemap: missing"))
	}

	if msg, ok := fields["activeLayers"]; ok {
		var ids []string
		if err := json.Unmarshal(msg, &ids); err != nil || ids == nil {
			errs = append(errs, fmt.Errorf("activeLayers: invalid value %s", msg))
		} else {
			layers := domain.NewLayerSet()
			for _, id := range ids {
				if l := domain.LayerType(id); l.Valid() {
					layers[l] = struct{}{}
				}
			}
			out.ActiveLayers = layers
		}
	} else {
		errs = append(errs, errors.New("activeLayers: missing"))
	}

	if msg, ok := fields["heatmapIntensity"]; ok {
		var x float64
		if err := json.Unmarshal(msg, &x); err != nil || isNull(msg) {
			errs = append(errs, fmt.Errorf("heatmapIntensity: invalid value %s", msg))
		} else {
			out.HeatmapIntensity = x
		}
	} else {
		errs = append(errs, errors.New("heatmapIntensity: missing"))
	}

	if msg, ok := fields["show3DBuildings"]; ok {
		var on bool
		if err := json.Unmarshal(msg, &on); err != nil || isNull(msg) {
			errs = append(errs, fmt.Errorf("show3DBuildings: invalid value %s", msg))
		} else {
			out.Show3DBuildings = on
		}
	} else {
		errs = append(errs, errors.New("show3DBuildings: missing"))
	}

	if len(errs) > 0 {
		return out, fmt.Errorf("decode preferences: %w", errors.Join(errs...))
	}
	return out, nil
}

func isNull(msg json.RawMessage) bool {
	return string(bytes.TrimSpace(msg)) == "null"
}
