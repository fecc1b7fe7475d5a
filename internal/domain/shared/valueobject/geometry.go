package valueobject

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// BoundingBox holds the axis-aligned extents of a part model
type BoundingBox struct {
	X decimal.Decimal `json:"x"`
	Y decimal.Decimal `json:"y"`
	Z decimal.Decimal `json:"z"`
}

// String returns the extents formatted as "X x Y x Z"
func (b BoundingBox) String() string {
	return fmt.Sprintf("%s x %s x %s", b.X.StringFixed(2), b.Y.StringFixed(2), b.Z.StringFixed(2))
}

// Geometry is a value object holding the measured shape of a part.
// It is immutable - all operations return new Geometry instances.
// The bounding box is nil for manually entered parts.
type Geometry struct {
	volume      decimal.Decimal
	boundingBox *BoundingBox
}

// NewGeometry creates a Geometry from a measured volume.
// Volume is expressed in volume-units and must not be negative.
func NewGeometry(volume decimal.Decimal) (Geometry, error) {
	if volume.IsNegative() {
		return Geometry{}, fmt.Errorf("volume cannot be negative")
	}
	return Geometry{volume: volume}, nil
}

// NewGeometryWithBounds creates a Geometry including a bounding box
func NewGeometryWithBounds(volume decimal.Decimal, box BoundingBox) (Geometry, error) {
	g, err := NewGeometry(volume)
	if err != nil {
		return Geometry{}, err
	}
	g.boundingBox = &box
	return g, nil
}

// MustNewGeometry creates a Geometry, panics on error
func MustNewGeometry(volume decimal.Decimal) Geometry {
	g, err := NewGeometry(volume)
	if err != nil {
		panic(err)
	}
	return g
}

// Volume returns the measured volume in volume-units
func (g Geometry) Volume() decimal.Decimal {
	return g.volume
}

// BoundingBox returns the bounding box and whether one is present
func (g Geometry) BoundingBox() (BoundingBox, bool) {
	if g.boundingBox == nil {
		return BoundingBox{}, false
	}
	return *g.boundingBox, true
}

// HasBoundingBox reports whether the geometry carries model extents
func (g Geometry) HasBoundingBox() bool {
	return g.boundingBox != nil
}

// IsZero returns true if the volume is zero
func (g Geometry) IsZero() bool {
	return g.volume.IsZero()
}

// String returns a short representation of the geometry
func (g Geometry) String() string {
	if g.boundingBox == nil {
		return g.volume.String()
	}
	return fmt.Sprintf("%s (%s)", g.volume.String(), g.boundingBox.String())
}

// geometryJSON is used for JSON marshaling/unmarshaling
type geometryJSON struct {
	Volume      decimal.Decimal `json:"volume"`
	BoundingBox *BoundingBox    `json:"bounding_box,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (g Geometry) MarshalJSON() ([]byte, error) {
	return json.Marshal(geometryJSON{
		Volume:      g.volume,
		BoundingBox: g.boundingBox,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (g *Geometry) UnmarshalJSON(data []byte) error {
	var v geometryJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Volume.IsNegative() {
		return fmt.Errorf("volume cannot be negative")
	}
	g.volume = v.Volume
	g.boundingBox = v.BoundingBox
	return nil
}
