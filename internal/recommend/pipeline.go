package recommend

import (
	"context"
	"log"
	"time"

	"github.com/aovlift/aovlift/internal/catalog"
)

// Gateway is the persistence surface the engine writes through. Every run
// creates fresh records; there is no update/merge.
type Gateway interface {
	EnsureStore(ctx context.Context, shopDomain string) (string, error)
	CreateBundle(ctx context.Context, storeID string, c BundleCandidate) (string, error)
	CreateUpsell(ctx context.Context, storeID string, c UpsellCandidate) (string, error)
}

const (
	DefaultProductLimit      = 100
	DefaultOrderLimit        = 250
	defaultCompletionTimeout = 60 * time.Second
)

// Engine runs one generation pass per invocation: normalize, analyze,
// attempt the generative path, fall back to the heuristic analyzers on any
// failure, rank, persist.
type Engine struct {
	source            catalog.Source
	completer         Completer
	gateway           Gateway
	productLimit      int
	orderLimit        int
	completionTimeout time.Duration
}

// NewEngine accepts a nil completer; that disables the generative path and
// every run uses the heuristic analyzers directly.
func NewEngine(source catalog.Source, completer Completer, gateway Gateway) *Engine {
	return &Engine{
		source:            source,
		completer:         completer,
		gateway:           gateway,
		productLimit:      DefaultProductLimit,
		orderLimit:        DefaultOrderLimit,
		completionTimeout: defaultCompletionTimeout,
	}
}

// RunResult reports how many records one run actually persisted. It does not
// say which path produced them; that lives on each record's source tag.
type RunResult struct {
	BundlesCreated int `json:"bundles_created"`
	UpsellsCreated int `json:"upsells_created"`
}

// GenerateRecommendations executes one run for a shop. Only total pipeline
// failure (data source unreachable, store row unavailable) returns an error;
// generative and per-record persistence failures are absorbed.
func (e *Engine) GenerateRecommendations(ctx context.Context, shopDomain string) (RunResult, error) {
	var result RunResult

	storeID, err := e.gateway.EnsureStore(ctx, shopDomain)
	if err != nil {
		return result, &GenerationError{Shop: shopDomain, Err: err}
	}

	rawProducts, err := e.source.FetchProducts(ctx, e.productLimit)
	if err != nil {
		return result, &GenerationError{Shop: shopDomain, Err: &DataSourceError{Op: "fetch products", Err: err}}
	}
	rawOrders, err := e.source.FetchOrders(ctx, e.orderLimit)
	if err != nil {
		return result, &GenerationError{Shop: shopDomain, Err: &DataSourceError{Op: "fetch orders", Err: err}}
	}
	products := catalog.NormalizeProducts(rawProducts)
	orders := catalog.NormalizeOrders(rawOrders)

	bundles := runPipeline(ctx, pipeline[BundleCandidate]{
		kind:      "bundles",
		completer: e.completer,
		timeout:   e.completionTimeout,
		prompt:    func() string { return BuildBundlePrompt(products, orders) },
		parse:     ParseBundles,
		fallback:  func() []BundleCandidate { return HeuristicBundles(products, orders) },
		finalize:  RankBundles,
	})
	upsells := runPipeline(ctx, pipeline[UpsellCandidate]{
		kind:      "upsells",
		completer: e.completer,
		timeout:   e.completionTimeout,
		prompt:    func() string { return BuildUpsellPrompt(products, orders) },
		parse:     ParseUpsells,
		fallback:  func() []UpsellCandidate { return HeuristicUpsells(products) },
		finalize:  RankUpsells,
	})

	for _, c := range bundles {
		if _, err := e.gateway.CreateBundle(ctx, storeID, c); err != nil {
			log.Printf("recommend persist_failed kind=bundle shop=%s err=%q", shopDomain, (&PersistenceError{Kind: "bundle", Err: err}).Error())
			continue
		}
		result.BundlesCreated++
	}
	for _, c := range upsells {
		if _, err := e.gateway.CreateUpsell(ctx, storeID, c); err != nil {
			log.Printf("recommend persist_failed kind=upsell shop=%s err=%q", shopDomain, (&PersistenceError{Kind: "upsell", Err: err}).Error())
			continue
		}
		result.UpsellsCreated++
	}
	log.Printf("recommend run_complete shop=%s bundles=%d upsells=%d", shopDomain, result.BundlesCreated, result.UpsellsCreated)
	return result, nil
}

// pipeline is one generate → validate → fallback → rank pass, parameterized
// by candidate type so the bundle and upsell flows share the coordinator
// logic. The two instantiations fail over independently.
type pipeline[T any] struct {
	kind      string
	completer Completer
	timeout   time.Duration
	prompt    func() string
	parse     func(raw string) ([]T, error)
	fallback  func() []T
	finalize  func([]T) []T
}

// runPipeline cannot fail: the heuristic branch is pure in-memory computation
// over already-normalized data and is therefore terminal.
func runPipeline[T any](ctx context.Context, p pipeline[T]) []T {
	candidates, ok := attemptGenerative(ctx, p)
	if !ok {
		candidates = p.fallback()
	}
	return p.finalize(candidates)
}

func attemptGenerative[T any](ctx context.Context, p pipeline[T]) ([]T, bool) {
	if p.completer == nil {
		log.Printf("recommend generative_skipped kind=%s reason=no_credential", p.kind)
		return nil, false
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	raw, err := p.completer.Complete(callCtx, p.prompt())
	if err != nil {
		perr := &ProviderError{Err: err}
		log.Printf("recommend generative_failed kind=%s elapsed_ms=%d err=%q", p.kind, time.Since(start).Milliseconds(), perr.Error())
		return nil, false
	}
	candidates, err := p.parse(raw)
	if err != nil {
		log.Printf("recommend generative_invalid kind=%s elapsed_ms=%d err=%q", p.kind, time.Since(start).Milliseconds(), err.Error())
		return nil, false
	}
	log.Printf("recommend generative_ok kind=%s count=%d elapsed_ms=%d", p.kind, len(candidates), time.Since(start).Milliseconds())
	return candidates, true
}
