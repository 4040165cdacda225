package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/jengzang/records-drivecost/internal/config"
	"github.com/jengzang/records-drivecost/internal/models"
)

// Analyzer is the interface that all event-sequence analyses implement
type Analyzer interface {
	// Analyze consumes the enriched event sequence. Implementations must not
	// modify events; the same slice is shared with other analyzers.
	Analyze(ctx context.Context, events []models.Event) (interface{}, error)

	// GetName returns the name of the analyzer
	GetName() string
}

// BaseAnalyzer provides common functionality for all analyzers
type BaseAnalyzer struct {
	Name string
}

// NewBaseAnalyzer creates a new base analyzer
func NewBaseAnalyzer(name string) *BaseAnalyzer {
	return &BaseAnalyzer{Name: name}
}

// GetName returns the analyzer name
func (a *BaseAnalyzer) GetName() string {
	return a.Name
}

// AnalyzerFactory is a function that creates an analyzer instance
type AnalyzerFactory func(cfg *config.Config) Analyzer

var (
	registryMu sync.RWMutex
	// AnalyzerRegistry maps analysis names to analyzer factories
	AnalyzerRegistry = make(map[string]AnalyzerFactory)
)

// RegisterAnalyzer registers an analyzer factory under a name
func RegisterAnalyzer(name string, factory AnalyzerFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	AnalyzerRegistry[name] = factory
}

// GetAnalyzer retrieves an analyzer instance by name, nil if unknown
func GetAnalyzer(name string, cfg *config.Config) Analyzer {
	registryMu.RLock()
	factory, ok := AnalyzerRegistry[name]
	registryMu.RUnlock()
	if !ok {
		return nil
	}
	return factory(cfg)
}

// Outcome is the result of one analyzer run; exactly one of Result or Err is set
type Outcome struct {
	Result interface{}
	Err    error
}

// RunAll runs the named analyzers concurrently over the same event slice. A
// failing analyzer yields no result for itself and does not stop the others.
func RunAll(ctx context.Context, cfg *config.Config, names []string, events []models.Event) (map[string]Outcome, error) {
	analyzers := make([]Analyzer, 0, len(names))
	for _, name := range names {
		a := GetAnalyzer(name, cfg)
		if a == nil {
			return nil, fmt.Errorf("unknown analyzer %q", name)
		}
		analyzers = append(analyzers, a)
	}

	var mu sync.Mutex
	outcomes := make(map[string]Outcome, len(analyzers))

	g, gctx := errgroup.WithContext(ctx)
	for _, a := range analyzers {
		a := a
		g.Go(func() error {
			start := time.Now()
			res, err := a.Analyze(gctx, events)

			mu.Lock()
			outcomes[a.GetName()] = Outcome{Result: res, Err: err}
			mu.Unlock()

			if err != nil {
				log.Error().
					Err(err).
					Str("component", "analysis").
					Str("analyzer", a.GetName()).
					Msg("Analyzer failed")
				return nil
			}

			log.Debug().
				Str("component", "analysis").
				Str("analyzer", a.GetName()).
				Dur("elapsed", time.Since(start)).
				Msg("Analyzer finished")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
