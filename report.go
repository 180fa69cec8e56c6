package pulsecheck

import (
	"log/slog"
	"time"
)

// DomainAvailability is one domain's availability within a single cycle.
type DomainAvailability struct {
	Domain string `json:"domain"`
	Tally
}

// Percentage returns the domain's availability for the cycle.
func (d DomainAvailability) Percentage() int {
	return d.Tally.Percentage()
}

// EndpointAvailability is one endpoint's lifetime availability as of the end
// of a cycle.
type EndpointAvailability struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Domain string `json:"domain"`
	Tally
}

// Percentage returns the endpoint's lifetime availability.
func (e EndpointAvailability) Percentage() int {
	return e.Tally.Percentage()
}

// CycleReport summarises one probing cycle.
//
// Domains only reflects probes made during this cycle. Endpoints carries the
// lifetime counts of every endpoint, including ones that have never
// succeeded.
type CycleReport struct {
	// ID uniquely identifies the cycle in logs.
	ID string `json:"id"`

	// StartedAt is when the first probe of the cycle was dispatched.
	StartedAt time.Time `json:"started_at"`

	// Duration is the wall time spent probing.
	Duration time.Duration `json:"duration"`

	// Domains lists per-domain tallies in the order each domain first appears
	// in the endpoint list.
	Domains []DomainAvailability `json:"domains"`

	// Endpoints lists lifetime tallies in endpoint order.
	Endpoints []EndpointAvailability `json:"endpoints"`

	// Interrupted is set when the context was cancelled before every endpoint
	// had been probed. An interrupted report is never logged or passed to
	// cycle callbacks.
	Interrupted bool `json:"interrupted"`
}

// DomainPercentages returns each domain's availability for the cycle, keyed
// by domain.
func (r CycleReport) DomainPercentages() map[string]int {
	out := make(map[string]int, len(r.Domains))
	for _, d := range r.Domains {
		out[d.Domain] = d.Percentage()
	}
	return out
}

// aggregateDomains reduces one cycle's results into per-domain tallies.
// Domains keep first-seen order.
func aggregateDomains(results []ProbeResult) []DomainAvailability {
	index := make(map[string]int)
	var domains []DomainAvailability
	for _, r := range results {
		i, ok := index[r.Domain]
		if !ok {
			i = len(domains)
			index[r.Domain] = i
			domains = append(domains, DomainAvailability{Domain: r.Domain})
		}
		domains[i].Record(r.Available)
	}
	return domains
}

// logReport writes the domain section followed by the endpoint section.
func logReport(logger *slog.Logger, r CycleReport) {
	logger.Info("domain availability",
		"cycle_id", r.ID,
		"domain_count", len(r.Domains),
		"duration_ms", r.Duration.Milliseconds(),
	)
	for _, d := range r.Domains {
		logger.Info("domain",
			"cycle_id", r.ID,
			"domain", d.Domain,
			"percent", d.Percentage(),
			"success", d.Success,
			"total", d.Total,
		)
	}

	logger.Info("endpoint availability",
		"cycle_id", r.ID,
		"endpoint_count", len(r.Endpoints),
	)
	for _, e := range r.Endpoints {
		logger.Info("endpoint",
			"cycle_id", r.ID,
			"name", e.Name,
			"url", e.URL,
			"percent", e.Percentage(),
			"success", e.Success,
			"total", e.Total,
		)
	}
}
