package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/ignite/student-registry/internal/pkg/logger"
)

// ErrProbeFailed wraps any failure of the metadata query. There is no safe
// default capability set, so callers must abort the request.
var ErrProbeFailed = errors.New("schema probe failed")

// MetadataSource lists the columns that currently exist on a table.
type MetadataSource interface {
	Columns(ctx context.Context, dbSchema, table string) (map[string]bool, error)
}

// Prober turns live schema metadata into CapabilitySets.
type Prober struct {
	source MetadataSource
}

// NewProber creates a Prober backed by source.
func NewProber(source MetadataSource) *Prober {
	return &Prober{source: source}
}

// Probe returns the CapabilitySet for e. A table with none of the optional
// columns (or no columns at all) yields an all-false set, not an error.
func (p *Prober) Probe(ctx context.Context, e Entity) (CapabilitySet, error) {
	cols, err := p.source.Columns(ctx, e.Schema, e.Table)
	if err != nil {
		return CapabilitySet{}, fmt.Errorf("%w: %s.%s: %w", ErrProbeFailed, e.Schema, e.Table, err)
	}

	var present []Attribute
	for _, a := range e.Optional {
		if cols[e.Column(a)] {
			present = append(present, a)
		}
	}

	caps := NewCapabilitySet(e, present...)
	logger.Debug("schema probed", "entity", e.Name, "capabilities", caps.String())
	return caps, nil
}
