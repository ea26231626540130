package recommend

import "fmt"

// DataSourceError wraps a failed product or order fetch. It is fatal to the
// run: with no data there is nothing to analyze.
type DataSourceError struct {
	Op  string
	Err error
}

func (e *DataSourceError) Error() string { return fmt.Sprintf("data source %s: %v", e.Op, e.Err) }
func (e *DataSourceError) Unwrap() error { return e.Err }

// ProviderError wraps a failed or timed-out generative completion. The
// fallback coordinator recovers from it; it never reaches the caller.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string { return fmt.Sprintf("completion provider: %v", e.Err) }
func (e *ProviderError) Unwrap() error { return e.Err }

// ValidationError means the generative output could not be interpreted as a
// usable candidate list. Recovered identically to ProviderError.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid generative output: %s: %v", e.Reason, e.Err)
	}
	return "invalid generative output: " + e.Reason
}

func (e *ValidationError) Unwrap() error { return e.Err }

// PersistenceError wraps a single failed record write. Logged and skipped;
// remaining writes proceed.
type PersistenceError struct {
	Kind string
	Err  error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("persist %s: %v", e.Kind, e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }

// GenerationError is the only error surfaced by GenerateRecommendations. It
// wraps the first unrecoverable cause of a run; heuristic fallback is not
// unrecoverable and never produces one.
type GenerationError struct {
	Shop string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate recommendations for %s: %v", e.Shop, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
