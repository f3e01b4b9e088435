// SPDX-License-Identifier: MIT

package dataset

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/mrio/decomp"
	"github.com/katalvlaran/mrio/ingest"
	"github.com/katalvlaran/mrio/table"
)

// Origin records where a snapshot's tables came from.
type Origin string

const (
	OriginCSV   Origin = "csv"
	OriginStore Origin = "store"
)

// Snapshot is one immutable loaded dataset.
type Snapshot struct {
	Tables      *ingest.Tables
	Catalog     table.Catalog
	Fingerprint string // empty when no store is configured
	Origin      Origin
	LoadedAt    time.Time
}

func newSnapshot(t *ingest.Tables, fp string, origin Origin) *Snapshot {
	return &Snapshot{
		Tables:      t,
		Catalog:     table.BuildCatalog(t.S),
		Fingerprint: fp,
		Origin:      origin,
		LoadedAt:    time.Now(),
	}
}

// Decompose runs decomp.Decompose on the snapshot's tables inside a span.
func (s *Snapshot) Decompose(ctx context.Context, q decomp.Query) (*decomp.Result, error) {
	_, span := tracer.Start(ctx, "decomp.Decompose", trace.WithAttributes(
		attribute.String("mrio.stressor", q.Stressor),
		attribute.String("mrio.region", q.Target.Region),
		attribute.String("mrio.sector", q.Target.Sector),
		attribute.String("mrio.policy", string(q.Policy)),
	))
	defer span.End()

	res, err := decomp.Decompose(s.Tables.S, s.Tables.L, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, ErrorKind(err))
		return nil, err
	}
	span.SetAttributes(
		attribute.Float64("mrio.total", res.Total),
		attribute.Int("mrio.producers", len(res.Contributions)),
	)

	return res, nil
}

// ErrorKind names the decomposition error class for span status and metric labels.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, decomp.ErrUnknownStressor):
		return "unknown_stressor"
	case errors.Is(err, decomp.ErrUnknownTarget):
		return "unknown_target"
	case errors.Is(err, decomp.ErrAlignmentGap):
		return "alignment_gap"
	case errors.Is(err, decomp.ErrInvalidPolicy):
		return "invalid_policy"
	case errors.Is(err, decomp.ErrNonFinite):
		return "non_finite"
	default:
		return "internal"
	}
}
