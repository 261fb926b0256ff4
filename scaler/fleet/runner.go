// Package fleet runs the autoscaler over many partitions at once. Each
// partition gets its own Controller and its own deterministically seeded
// random stream, so results do not depend on scheduling or worker count.
package fleet

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/joshelser/opscenter-autoscaler/scaler"
	"github.com/joshelser/opscenter-autoscaler/scaler/dataset"
	"github.com/joshelser/opscenter-autoscaler/scaler/trace"
)

// Options configures every controller the runner creates.
type Options struct {
	Seed        int64
	Workers     int    // <= 0 uses GOMAXPROCS
	Reward      string // reward model name, see scaler.ValidRewardModels
	Restart     string // restart policy name, see scaler.ValidRestartPolicies
	Prior       string // prior name, see scaler.PriorNames
	OnMalformed scaler.MalformedPolicy

	// Fallback size bounds, used when a partition sets none of its own.
	MinSize string
	MaxSize string
}

// Validate checks that all strategy names are recognized.
func (o Options) Validate() error {
	if !scaler.IsValidRewardModel(o.Reward) {
		return fmt.Errorf("unknown reward model %q", o.Reward)
	}
	if !scaler.IsValidRestartPolicy(o.Restart) {
		return fmt.Errorf("unknown restart policy %q", o.Restart)
	}
	if !scaler.ValidMalformedPolicies[o.OnMalformed] {
		return fmt.Errorf("unknown malformed policy %q", o.OnMalformed)
	}
	if _, err := scaler.LookupPrior(o.Prior); err != nil {
		return err
	}
	return nil
}

// Result is the outcome of one partition. Trace is always set; Err is set
// when the partition aborted under scaler.MalformedFail.
type Result struct {
	Partition string
	Trace     *trace.PartitionTrace
	Err       error
}

// Runner fans partitions out to a bounded pool of workers.
type Runner struct {
	opts    Options
	prior   scaler.Prior
	metrics *Metrics
}

// NewRunner creates a runner. metrics may be nil.
func NewRunner(opts Options, metrics *Metrics) (*Runner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	prior, _ := scaler.LookupPrior(opts.Prior)
	return &Runner{opts: opts, prior: prior, metrics: metrics}, nil
}

// Run processes every partition and returns results in input order.
// A failing partition does not stop the others; the returned error is
// non-nil only if ctx is cancelled before all partitions ran.
func (r *Runner) Run(ctx context.Context, partitions []dataset.Partition) ([]Result, error) {
	results := make([]Result, len(partitions))

	// Derive all sources up front: PartitionedRNG is single-goroutine.
	// Repeated keys get a numbered stream so no generator is shared.
	rngs := scaler.NewPartitionedRNG(scaler.NewRunKey(r.opts.Seed))
	sources := make([]scaler.Source, len(partitions))
	used := make(map[string]bool, len(partitions))
	for i, p := range partitions {
		name := p.Key
		for n := 1; used[name]; n++ {
			name = fmt.Sprintf("%s#%d", p.Key, n)
		}
		used[name] = true
		sources[i] = rngs.ForPartition(name)
	}

	workers := r.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range partitions {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.runPartition(partitions[i], sources[i])
			r.metrics.observe(results[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func (r *Runner) runPartition(p dataset.Partition, src scaler.Source) Result {
	hp := p.Hyperparameters()
	if p.MinSize == "" && p.MaxSize == "" && hp.Bounds == scaler.FullRange() {
		hp = hp.WithBounds(r.opts.MinSize, r.opts.MaxSize)
	}
	c := scaler.NewController(scaler.Config{
		Partition:       p.Key,
		Hyperparameters: hp,
		Prior:           r.prior,
		Reward:          scaler.NewRewardModel(r.opts.Reward),
		Restart:         scaler.NewRestartPolicy(r.opts.Restart),
		OnMalformed:     r.opts.OnMalformed,
		Source:          src,
	})
	tr, err := c.Run(p.Rows)
	if err != nil {
		logrus.Warnf("partition %q aborted: %v", p.Key, err)
	}
	logrus.Debugf("partition %q: %d rows -> %d records (termination=%q)",
		p.Key, len(p.Rows), tr.Len(), tr.Termination)
	return Result{Partition: p.Key, Trace: tr, Err: err}
}
