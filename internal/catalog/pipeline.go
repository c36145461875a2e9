package catalog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pipeline runs the resolve-then-extract flow over a batch of input names.
// Each input maps to exactly one Result; failures never abort the batch and
// nothing is retried.
type Pipeline struct {
	resolver    QueryResolver
	extractor   RecordExtractor
	concurrency int
	logger      *zap.Logger
}

// NewPipeline constructs a Pipeline. Concurrency below 1 is treated as
// fully sequential processing.
func NewPipeline(resolver QueryResolver, extractor RecordExtractor, concurrency int, logger *zap.Logger) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		resolver:    resolver,
		extractor:   extractor,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run maps each distinct input name to a Result. Duplicates collapse to
// their first occurrence and output order matches first-occurrence order,
// regardless of concurrency. Inputs are independent, so the bounded worker
// pool is safe; results land in a fresh slice by index.
func (p *Pipeline) Run(ctx context.Context, names []string) ([]Result, Summary) {
	start := time.Now()
	distinct := dedupe(names)
	results := make([]Result, len(distinct))

	if p.concurrency == 1 {
		for i, name := range distinct {
			results[i] = p.process(ctx, name)
		}
	} else {
		p.runPool(ctx, distinct, results)
	}

	summary := Summary{Total: len(distinct), Elapsed: time.Since(start)}
	for _, res := range results {
		switch res.Kind {
		case ResultOK:
			summary.Fetched++
		case ResultNotFound:
			summary.NotFound++
		case ResultExcluded:
			summary.Skipped++
		}
	}

	p.logger.Info("pipeline finished",
		zap.Int("total", summary.Total),
		zap.Int("fetched", summary.Fetched),
		zap.Int("not_found", summary.NotFound),
		zap.Int("skipped", summary.Skipped),
		zap.Duration("elapsed", summary.Elapsed),
	)
	return results, summary
}

func (p *Pipeline) runPool(ctx context.Context, distinct []string, results []Result) {
	type job struct {
		index int
		name  string
	}
	jobs := make(chan job)

	var wg sync.WaitGroup
	for w := 0; w < p.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.index] = p.process(ctx, j.name)
			}
		}()
	}

	for i, name := range distinct {
		jobs <- job{index: i, name: name}
	}
	close(jobs)
	wg.Wait()
}

// process runs one input through the resolver and, when resolution
// succeeds, the extractor. A single failed attempt is final.
func (p *Pipeline) process(ctx context.Context, name string) Result {
	resolution := p.resolver.Resolve(ctx, name)
	switch resolution.Kind {
	case Excluded:
		return Result{Query: name, Kind: ResultExcluded}
	case NotResolved:
		return Result{Query: name, Kind: ResultNotFound}
	}

	result := p.extractor.Extract(ctx, resolution.AppID)
	result.Query = name
	if result.Kind == ResultOK {
		p.logger.Info("metadata fetched",
			zap.String("query", name),
			zap.String("app_id", result.Record.AppID),
		)
	}
	return result
}

// dedupe collapses exact duplicates, preserving first-occurrence order.
func dedupe(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
