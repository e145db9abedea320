// Package pricing provides quality tier resolution for part-based issues.
// Lookups are independent per issue; a failing issue never blocks the others.
package pricing

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"repairdesk/core/types"
	"repairdesk/internal/errors"
	"repairdesk/internal/logging"
)

// TierSource fetches the pricing options of one issue
type TierSource interface {
	PricingOptions(ctx context.Context, issueID string) ([]types.QualityTier, error)
}

// TierResult is the outcome of one issue's tier lookup
type TierResult struct {
	// IssueID is the canonical issue id
	IssueID string

	// Tiers are the available options; empty means "no option available"
	Tiers []types.QualityTier

	// Err is set when the lookup failed
	Err error

	// Duration is how long the lookup took
	Duration time.Duration
}

// OK reports whether the lookup succeeded
func (r TierResult) OK() bool {
	return r.Err == nil
}

// Options configures a Resolver
type Options struct {
	// Timeout bounds a single lookup (0 = no extra bound)
	Timeout time.Duration

	// MaxConcurrency limits parallel lookups in a batch
	MaxConcurrency int
}

// Resolver resolves quality tiers for issues
type Resolver struct {
	source TierSource
	opts   Options
	log    *zap.Logger
}

// NewResolver creates a resolver over source
func NewResolver(source TierSource, opts Options) *Resolver {
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = 4
	}
	return &Resolver{
		source: source,
		opts:   opts,
		log:    logging.Named("pricing"),
	}
}

// Resolve fetches the tiers of a single issue
func (r *Resolver) Resolve(ctx context.Context, issueID string) TierResult {
	id := types.NormalizeID(issueID)
	start := time.Now()

	if id == "" {
		return TierResult{IssueID: id, Err: errors.Input("tier lookup without issue id")}
	}

	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	tiers, err := r.source.PricingOptions(ctx, id)
	res := TierResult{IssueID: id, Tiers: tiers, Duration: time.Since(start)}
	if err != nil {
		res.Tiers = nil
		res.Err = errors.Wrapf(errors.TypePricing, err, "pricing options for issue %s", id)
		r.log.Warn("tier lookup failed",
			zap.String("issue_id", id),
			zap.Bool("retryable", errors.IsRetryable(err)),
			zap.Error(err))
		return res
	}

	r.log.Debug("tiers resolved",
		zap.String("issue_id", id),
		zap.Int("tiers", len(tiers)),
		zap.Duration("duration", res.Duration))
	return res
}

// ResolveBatch fetches the tiers of several issues concurrently.
// Ids are normalized and deduplicated. Every id gets an entry in the result;
// failures are recorded per id and do not cancel sibling lookups.
func (r *Resolver) ResolveBatch(ctx context.Context, issueIDs []string) map[string]TierResult {
	ids := dedupe(issueIDs)
	results := make([]TierResult, len(ids))

	var g errgroup.Group
	g.SetLimit(r.opts.MaxConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			results[i] = r.Resolve(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]TierResult, len(ids))
	for _, res := range results {
		out[res.IssueID] = res
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, raw := range ids {
		id := types.NormalizeID(raw)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
