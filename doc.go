/*
Package tadau is a lightweight usage-analytics reporting client for the
Google Analytics 4 Measurement Protocol.

It lets independently distributed tools opt in to anonymous usage
telemetry without reimplementing request shaping or credential handling:
events are enriched with fixed dimensions, stripped of protocol-reserved
and empty fields, and posted one request per event to the collect
endpoint.

Design Principles:

  - Opt-in first: when not opted in, no network traffic is ever produced.
  - Best-effort delivery: sending never returns an error to the caller.
    Per-event failures are logged, recorded in a BatchReport, and never
    affect sibling events in the same batch.
  - No retained state: no batching, no retries, no persistence. Each call
    is stateless beyond the immutable configuration.

Basic usage:

	reporter, err := tadau.New(
	    tadau.WithAPISecret(apiSecret),
	    tadau.WithMeasurementID(measurementID),
	    tadau.WithOptInString(os.Getenv("TADAU_OPT_IN")),
	    tadau.WithFixedDimensions(map[string]interface{}{"deploy_id": deployID}),
	)
	if err != nil {
	    // Only configuration problems surface here.
	    log.Fatal(err)
	}
	reporter.SendEvents(ctx, events)

Usage with a config file:

	reporter, err := tadau.New(tadau.WithConfigFile("my_solution/config.yaml"))

Observability:

The reporter uses the OpenTelemetry global API only. When the host
application installs tracer and meter providers, each batch produces a
span and per-event counters; without them everything is a safe no-op.
*/
package tadau
