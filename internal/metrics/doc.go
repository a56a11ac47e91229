// Package metrics provides build metrics for docket.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default, so code paths never need nil checks; the preview server swaps
// in a PrometheusRecorder and exposes it with HTTPHandler.
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	router.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
