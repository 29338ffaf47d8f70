package calculation

import (
	"sort"
	"sync"

	"github.com/climpact/climpact/internal/domain"
)

// ImpactSet holds the per-metric results of a full scenario computation.
// Failures are collected alongside successes: a caller analyzing ten
// metrics still gets results for the nine that were well configured.
type ImpactSet struct {
	ScenarioName string             `json:"scenarioName"`
	Impacts      map[string]*Impact `json:"impacts"`
	Errors       map[string]error   `json:"-"`
}

// Metrics returns the sorted names of all metrics attempted, succeeded or
// failed.
func (is *ImpactSet) Metrics() []string {
	names := make([]string, 0, len(is.Impacts)+len(is.Errors))
	for name := range is.Impacts {
		names = append(names, name)
	}
	for name := range is.Errors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ComputeImpactAll computes the impact for every metric declared on the
// scenario (its own coefficients plus the solution's reference
// coefficients). Metrics are independent, so they are computed in parallel;
// results are keyed by metric name, so collection is deterministic
// regardless of completion order.
func (e *ImpactEngine) ComputeImpactAll(scenario *domain.Scenario) *ImpactSet {
	metrics := scenario.MetricNames()

	type outcome struct {
		metric string
		impact *Impact
		err    error
	}

	var wg sync.WaitGroup
	results := make(chan outcome, len(metrics))
	for _, metric := range metrics {
		wg.Add(1)
		go func(metric string) {
			defer wg.Done()
			impact, err := e.ComputeImpact(scenario, metric)
			results <- outcome{metric: metric, impact: impact, err: err}
		}(metric)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	set := &ImpactSet{
		ScenarioName: scenario.Name,
		Impacts:      make(map[string]*Impact, len(metrics)),
		Errors:       make(map[string]error),
	}
	for r := range results {
		if r.err != nil {
			e.Logger.Errorf("scenario %s: metric %s failed: %v", scenario.Name, r.metric, r.err)
			set.Errors[r.metric] = r.err
			continue
		}
		set.Impacts[r.metric] = r.impact
	}
	return set
}
