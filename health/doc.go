// Package health runs pre-flight checks for a research run.
//
// A Checker reports whether one dependency of the pipeline is usable: the
// cache directory, the model credentials or an upstream search endpoint.
// Results are Healthy, Degraded or Unhealthy.
//
// # Running Checks
//
//	agg := health.NewAggregator()
//	agg.Register("cache", health.NewCacheDirChecker("cache"))
//	agg.Register("openai", health.NewCredentialsChecker("openai", resolveKey))
//	agg.Register("openalex", health.NewEndpointChecker("openalex", "https://api.openalex.org/works", nil))
//
//	report := health.NewReport(agg, agg.CheckAll(ctx))
//	report.WriteText(os.Stdout)
//
// Checks run in parallel under a shared timeout. A check that outlives the
// timeout is reported Unhealthy with ErrCheckTimeout.
//
// An unreachable endpoint is Unhealthy; an endpoint answering with a 4xx
// status is Degraded, since it proves the host is up but the check request
// was refused.
package health
