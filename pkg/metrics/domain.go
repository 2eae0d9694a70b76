package metrics

import "github.com/prometheus/client_golang/prometheus"

var cacheRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "offline_worker_cache_requests_total",
	Help: "Intercepted requests partitioned by strategy and outcome (network, hit, miss, fallback)",
}, []string{"strategy", "outcome"})

var actionsQueued = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "offline_worker_actions_queued_total",
	Help: "Pending actions accepted into the durable queue",
})

var actionsReplayed = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "offline_worker_actions_replayed_total",
	Help: "Queue drain attempts partitioned by result",
}, []string{"result"})

var queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "offline_worker_queue_depth",
	Help: "Pending actions currently queued",
})

var widgetRefreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "offline_worker_widget_refreshes_total",
	Help: "Widget asset refreshes partitioned by asset and result",
}, []string{"asset", "result"})

func init() {
	prometheus.MustRegister(cacheRequests, actionsQueued, actionsReplayed, queueDepth, widgetRefreshes)
}

func CacheRequest(strategy, outcome string) {
	cacheRequests.WithLabelValues(strategy, outcome).Inc()
}

func ActionQueued() {
	actionsQueued.Inc()
}

func ActionReplayed(result string) {
	actionsReplayed.WithLabelValues(result).Inc()
}

func SetQueueDepth(depth int) {
	queueDepth.Set(float64(depth))
}

func WidgetRefresh(asset, result string) {
	widgetRefreshes.WithLabelValues(asset, result).Inc()
}
