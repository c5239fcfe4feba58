package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	resolveDuration *prom.HistogramVec
	resolveResults  *prom.CounterVec
	strategyHits    *prom.CounterVec
	storeFetches    *prom.CounterVec
	renderDuration  prom.Histogram
	indexDuration   prom.Histogram
	apiSearches     prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.resolveDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docsite",
			Name:      "resolve_duration_seconds",
			Help:      "Duration of slug resolution",
			Buckets:   prom.DefBuckets,
		}, []string{"lang"})
		pr.resolveResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "resolve_results_total",
			Help:      "Slug resolution outcomes",
		}, []string{"lang", "result"})
		pr.strategyHits = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "resolve_strategy_hits_total",
			Help:      "Which resolver strategy produced the document",
		}, []string{"strategy"})
		pr.storeFetches = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "store_fetches_total",
			Help:      "Content store fetches by outcome",
		}, []string{"result"})
		pr.renderDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docsite",
			Name:      "render_duration_seconds",
			Help:      "Duration of document compilation",
			Buckets:   prom.DefBuckets,
		})
		pr.indexDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docsite",
			Name:      "apiref_index_build_duration_seconds",
			Help:      "Duration of API reference index builds",
			Buckets:   prom.DefBuckets,
		})
		pr.apiSearches = prom.NewCounter(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "apiref_searches_total",
			Help:      "API reference search queries served",
		})
		reg.MustRegister(pr.resolveDuration, pr.resolveResults, pr.strategyHits,
			pr.storeFetches, pr.renderDuration, pr.indexDuration, pr.apiSearches)
	})
	return pr
}

func (pr *PrometheusRecorder) ObserveResolveDuration(lang string, d time.Duration) {
	pr.resolveDuration.WithLabelValues(lang).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncResolveResult(lang string, result ResultLabel) {
	pr.resolveResults.WithLabelValues(lang, string(result)).Inc()
}

func (pr *PrometheusRecorder) IncResolveStrategyHit(strategy string) {
	pr.strategyHits.WithLabelValues(strategy).Inc()
}

func (pr *PrometheusRecorder) IncStoreFetch(result ResultLabel) {
	pr.storeFetches.WithLabelValues(string(result)).Inc()
}

func (pr *PrometheusRecorder) ObserveRenderDuration(d time.Duration) {
	pr.renderDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) ObserveIndexBuildDuration(d time.Duration) {
	pr.indexDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncAPISearch() {
	pr.apiSearches.Inc()
}
