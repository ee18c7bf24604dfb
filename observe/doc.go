// Package observe provides the structured logger, tracer and meter used by
// every layer of a research run.
//
// A Middleware wraps one unit of work (a search call, an agent run or a
// pipeline stage) described by a CallMeta with a span, the ragteam.call.*
// metrics and a log line. Cache lookups are counted separately through
// ragteam.cache.lookups so hit rates stay visible even though providers hide
// them from their callers.
package observe
