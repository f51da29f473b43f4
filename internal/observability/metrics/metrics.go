package metrics

import (
	"context"
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "wisewatt_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	priceRefreshTotal   *prometheus.CounterVec
	priceRefreshLatency *prometheus.HistogramVec
	feedParseFailures   prometheus.Counter

	deviceStatusRefreshes prometheus.Counter
	consumptionQueries    *prometheus.CounterVec

	storedPriceRows prometheus.Gauge
)

// Init registers observability metrics and the DB-backed price row gauge.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		priceRefreshTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "price_refresh_total",
				Help: "Total price feed refresh attempts by result",
			},
			[]string{"result"},
		)
		priceRefreshLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "price_refresh_latency_seconds",
				Help:    "Price feed refresh latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		feedParseFailures = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "price_feed_parse_failures_total",
				Help: "Total aborted ingestions due to malformed feed data",
			},
		)
		deviceStatusRefreshes = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "device_status_refreshes_total",
				Help: "Total device IsOn recomputations",
			},
		)
		consumptionQueries = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "consumption_queries_total",
				Help: "Total consumption aggregation queries by result",
			},
			[]string{"result"},
		)
		storedPriceRows = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "stored_price_rows",
				Help: "Number of rows in the electricity price table",
			},
		)

		prometheus.MustRegister(
			priceRefreshTotal,
			priceRefreshLatency,
			feedParseFailures,
			deviceStatusRefreshes,
			consumptionQueries,
			storedPriceRows,
		)

		if db != nil {
			go pollPriceRows(db, logger)
		}
	})
}

// ObservePriceRefresh records one refresh attempt.
func ObservePriceRefresh(result string, elapsed time.Duration) {
	if priceRefreshTotal == nil {
		return
	}
	priceRefreshTotal.WithLabelValues(result).Inc()
	priceRefreshLatency.WithLabelValues(result).Observe(elapsed.Seconds())
}

// IncFeedParseFailure records one aborted ingestion.
func IncFeedParseFailure() {
	if feedParseFailures == nil {
		return
	}
	feedParseFailures.Inc()
}

// IncDeviceStatusRefresh records one IsOn recomputation.
func IncDeviceStatusRefresh() {
	if deviceStatusRefreshes == nil {
		return
	}
	deviceStatusRefreshes.Inc()
}

// ObserveConsumptionQuery records one aggregation call.
func ObserveConsumptionQuery(err error) {
	if consumptionQueries == nil {
		return
	}
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	consumptionQueries.WithLabelValues(result).Inc()
}

func pollPriceRows(db *sql.DB, logger *log.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		var count int64
		err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM electricity_prices").Scan(&count)
		cancel()
		if err != nil {
			if logger != nil {
				logger.Printf("price row gauge: %v", err)
			}
			continue
		}
		storedPriceRows.Set(float64(count))
	}
}
