// Package bootstrap runs a service through its lifecycle: validated config,
// logger, component start in registration order, hooks, signal handling and
// graceful shutdown in reverse order.
//
//	app, err := bootstrap.NewApp(cfg)
//	if err != nil {
//	    return err
//	}
//	app.RegisterComponent(backend)
//	app.RegisterComponent(server.NewComponent(srv))
//	app.OnStop(shutdownTelemetry)
//	return app.Run(ctx)
package bootstrap
