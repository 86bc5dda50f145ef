// Package metrics records run metrics for the docsite commands.
//
// Components receive a Recorder and default to NoopRecorder, so metrics stay
// optional without nil checks at call sites:
//
//	rec := metrics.Recorder(metrics.NoopRecorder{})
//	if cfg.Metrics.Textfile != "" {
//	    rec = metrics.NewPrometheusRecorder(nil)
//	}
//
// A PrometheusRecorder is never served over HTTP. The commands are short
// lived, so the registry is written to a node_exporter textfile via
// WriteTextfile after each run (and after each rebuild in watch mode).
package metrics
