/*
Package monitoring provides export metrics.

# Overview

Collectors live on a private Prometheus registry so several sessions in
one process, and tests, never collide on the global one. Metrics is also
the transcoder's event recorder.

# Usage

	metrics := monitoring.NewMetrics()

	timer := monitoring.NewTimer(metrics)
	err := session.Run(ctx, path, root)
	timer.Stop(err)

	// At the end of a CLI run
	_ = metrics.WriteTextfile("/var/lib/node_exporter/fguiexport.prom")
*/
package monitoring
