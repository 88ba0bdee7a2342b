package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// BBox returns the bounds in [west, south, east, north] order, as the backend expects.
func (b Bounds) BBox() BBox {
	return BBox{b.MinLon, b.MinLat, b.MaxLon, b.MaxLat}
}

// BBox is a bounding box in [west, south, east, north] order.
type BBox [4]float64

// Position is a GeoJSON position: [longitude, latitude].
type Position [2]float64

// Polygon is a GeoJSON polygon geometry.
type Polygon struct {
	Type        string       `json:"type"`
	Coordinates [][]Position `json:"coordinates"`
}

// NewPolygon builds a polygon from one or more linear rings.
func NewPolygon(rings ...[]Position) *Polygon {
	return &Polygon{Type: "Polygon", Coordinates: rings}
}

// Clone returns a deep copy. A nil polygon clones to nil.
func (p *Polygon) Clone() *Polygon {
	if p == nil {
		return nil
	}
	out := &Polygon{Type: p.Type, Coordinates: make([][]Position, len(p.Coordinates))}
	for i, ring := range p.Coordinates {
		out.Coordinates[i] = append([]Position(nil), ring...)
	}
	return out
}

// Closed reports whether every ring has at least four positions and ends where it starts.
func (p *Polygon) Closed() bool {
	if p == nil || len(p.Coordinates) == 0 {
		return false
	}
	for _, ring := range p.Coordinates {
		if len(ring) < 4 || ring[0] != ring[len(ring)-1] {
			return false
		}
	}
	return true
}

// Equal reports whether p and q describe the same geometry. Two nil polygons are equal.
func (p *Polygon) Equal(q *Polygon) bool {
	if p == nil || q == nil {
		return p == q
	}
	if p.Type != q.Type || len(p.Coordinates) != len(q.Coordinates) {
		return false
	}
	for i, ring := range p.Coordinates {
		if len(ring) != len(q.Coordinates[i]) {
			return false
		}
		for j, pos := range ring {
			if pos != q.Coordinates[i][j] {
				return false
			}
		}
	}
	return true
}
