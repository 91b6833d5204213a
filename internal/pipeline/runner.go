// Package pipeline drives the batch: fetch each queued lookup, project
// its geometry, deduplicate vertices across the run, and flatten the
// results into exportable rows.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Egidiu/cadastral-cli/internal/model"
	"github.com/Egidiu/cadastral-cli/internal/projection"
)

// Fetcher retrieves raw EPSG:3844 rings for one query URL.
type Fetcher interface {
	FetchRings(ctx context.Context, url string) ([][][]float64, error)
}

// Runner processes a batch of lookup requests strictly sequentially:
// one blocking fetch, then the pacing delay, then the next record.
// There is no fan-out; output order matches input order.
type Runner struct {
	fetcher     Fetcher
	transformer projection.Transformer
	limiter     *rate.Limiter
}

// NewRunner creates a Runner with a fixed inter-request delay. The
// delay respects the upstream service's informal rate expectations; the
// first request is not delayed.
func NewRunner(fetcher Fetcher, transformer projection.Transformer, delay time.Duration) *Runner {
	if delay <= 0 {
		delay = 2 * time.Second
	}
	return &Runner{
		fetcher:     fetcher,
		transformer: transformer,
		limiter:     rate.NewLimiter(rate.Every(delay), 1),
	}
}

// Process runs the whole batch. Every per-record failure (HTTP status,
// parse, empty result, projection) degrades that record to a no-data
// result and processing continues; only context cancellation aborts
// the run.
func (r *Runner) Process(ctx context.Context, requests []model.LookupRequest) ([]model.ParcelResult, error) {
	seen := NewSeenSet()
	results := make([]model.ParcelResult, 0, len(requests))

	for _, req := range requests {
		if err := r.limiter.Wait(ctx); err != nil {
			return results, eris.Wrap(err, "pipeline: pacing wait")
		}

		results = append(results, r.processOne(ctx, req, seen))
	}

	return results, nil
}

func (r *Runner) processOne(ctx context.Context, req model.LookupRequest, seen SeenSet) model.ParcelResult {
	log := zap.L().With(
		zap.String("county", req.County),
		zap.String("uat", req.UAT),
		zap.Int64("cadastral_number", req.CadastralNumber),
	)

	rings, err := r.fetcher.FetchRings(ctx, req.QueryURL)
	if err != nil {
		log.Warn("fetch failed, skipping record", zap.Error(err))
		return model.ParcelResult{Request: req, Err: err.Error()}
	}

	vertices, central, err := r.transformer.Transform(rings)
	if err != nil {
		log.Warn("projection failed, skipping record", zap.Error(err))
		return model.ParcelResult{Request: req, Err: err.Error()}
	}
	if central == nil {
		log.Warn("geometry contained no points, skipping record")
		return model.ParcelResult{Request: req, Err: "empty geometry"}
	}

	kept := Dedupe(vertices, seen)
	log.Info("record processed",
		zap.Int("vertices", len(vertices)),
		zap.Int("kept", len(kept)),
	)

	return model.ParcelResult{Request: req, Vertices: kept, Central: central}
}
