// Package metrics provides application-level counters using stdlib expvar.
// Counters are automatically exported on the /debug/vars HTTP endpoint
// when net/http/pprof is imported in the main binary.
package metrics

import "expvar"

// Operation counters.
var (
	RecognizeTotal = expvar.NewInt("entity_intel_recognize_total")
	EnrichTotal    = expvar.NewInt("entity_intel_enrich_total")
	CacheHits      = expvar.NewInt("entity_intel_cache_hits_total")
	CacheMisses    = expvar.NewInt("entity_intel_cache_misses_total")
	NetworkMaps    = expvar.NewInt("entity_intel_network_maps_total")
	Predictions    = expvar.NewInt("entity_intel_predictions_total")
	IntelUpdates   = expvar.NewInt("entity_intel_intel_updates_total")
	WriteConflicts = expvar.NewInt("entity_intel_write_conflicts_total")
)

// Inc increments the given counter by 1.
func Inc(counter *expvar.Int) { counter.Add(1) }
