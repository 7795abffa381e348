package main

import (
	"time"

	"github.com/pascaldekloe/metrics"
)

var (
	metricRequests      = metrics.MustCounter("curtain_requests", "Number of requests handled")
	metricResolveFailed = metrics.MustCounter("curtain_resolve_failures", "Number of post identifiers that did not resolve to a file")
	metricEntriesListed = metrics.MustCounter("curtain_entries_listed", "Number of entries returned by post listings")
	metricListTime      = metrics.MustCounter("curtain_list_time", "Total time spent listing posts in ms")
	metricRenderTime    = metrics.MustCounter("curtain_render_time", "Total time spent rendering markdown in ms")
)

func measure(metric *metrics.Counter, f func()) {
	start := time.Now()
	f()
	metric.Add(uint64(time.Since(start).Milliseconds()))
}
