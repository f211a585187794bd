// Package app wires the bond matching service together and manages its
// lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, YAML file, BONDMATCH_* environment)
//	2. Initialize logging and OpenTelemetry providers
//	3. Resolve and create the data, uploads, exports and logs directories
//	4. Build the bond, health and file services
//	5. Set up the chi router, middleware chain and /metrics
//	6. Load the startup dataset, if one is configured or present
//
// # Usage
//
//	app, err := app.NewApplication(configPath, "")
//	if err != nil {
//	    return err
//	}
//	return app.Run(ctx)
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests and
// flushes telemetry. Errors are returned to the caller; the package never
// exits the process itself.
package app
