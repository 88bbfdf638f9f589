package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus-метрики движка выборок.
var (
	filmQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fm_film_queries_total",
		Help: "Общее количество выборок фильмов по типу операции.",
	}, []string{"operation"})
	filmQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fm_film_query_duration_seconds",
		Help:    "Длительность выборок фильмов.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	likesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fm_likes_total",
		Help: "Количество изменений индекса лайков.",
	}, []string{"operation"})
	feedErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fm_feed_errors_total",
		Help: "Количество неудачных записей в ленту событий.",
	})
)

// observeQuery учитывает выборку в метриках. Вызывается через defer.
func observeQuery(operation string, start time.Time) {
	filmQueriesTotal.WithLabelValues(operation).Inc()
	filmQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
