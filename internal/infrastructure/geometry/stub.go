// Package geometry provides model measurement implementations for the
// quoting workflow.
package geometry

import (
	"context"
	"fmt"
	"hash/fnv"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	quotingapp "github.com/fabshop/backend/internal/application/quoting"
	"github.com/fabshop/backend/internal/domain/shared/valueobject"
)

// supportedExtensions are the model file formats the measurer accepts
var supportedExtensions = map[string]struct{}{
	".stl":  {},
	".step": {},
	".stp":  {},
	".iges": {},
	".igs":  {},
	".obj":  {},
	".3mf":  {},
}

// StubMeasurer is a placeholder implementation of the geometry
// provider. It validates the file format and returns a deterministic
// pseudo-measurement derived from the file name, so the same file
// always measures the same. Use this until a real mesh kernel is
// wired in.
type StubMeasurer struct{}

// NewStubMeasurer creates a new StubMeasurer
func NewStubMeasurer() *StubMeasurer {
	return &StubMeasurer{}
}

// Ensure StubMeasurer implements the quoting geometry port
var _ quotingapp.GeometryProvider = (*StubMeasurer)(nil)

// Extract validates the model format and measures it
func (m *StubMeasurer) Extract(_ context.Context, path string) (valueobject.Geometry, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return valueobject.Geometry{}, fmt.Errorf("model file has no extension: %s", filepath.Base(path))
	}
	if _, ok := supportedExtensions[ext]; !ok {
		return valueobject.Geometry{}, fmt.Errorf("unsupported file format: %s", ext)
	}

	// Stable per-name measurement keeps repeated imports consistent.
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(filepath.Base(path))))
	seed := h.Sum32()

	volume := decimal.NewFromInt(int64(seed%9000 + 1000)).Div(decimal.NewFromInt(100))
	box := valueobject.BoundingBox{
		X: decimal.NewFromInt(int64(seed%190 + 10)),
		Y: decimal.NewFromInt(int64(seed/7%190 + 10)),
		Z: decimal.NewFromInt(int64(seed/49%90 + 5)),
	}

	return valueobject.NewGeometryWithBounds(volume, box)
}
