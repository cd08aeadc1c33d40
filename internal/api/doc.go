// Package api serves the HTTP JSON surface over probing, sizing, mixing,
// job history, tool status and the watchlist.
//
// # Routes
//
//	GET  /api/tools
//	POST /api/probe       {path, kind}            -> tracks.Result
//	GET  /api/size?path=  -> {size}
//	POST /api/mix         {inputs, outputPath}    -> {outputPath}
//	GET  /api/jobs?limit= -> {jobs}
//	GET  /api/jobs/{id}
//	GET  /api/watchlist
//	POST /api/watchlist   watchlist.Subject       -> resulting list
//
// Failures are written as {"error": "..."}. Validation failures map to 400,
// a missing external tool to 503, and everything else to 500. When a rate
// limit is configured, probe and mix answer 429 with Retry-After once it is
// spent.
//
// Every request gets a correlation id, taken from X-Request-ID when the
// caller sends one, that is echoed back and attached to log lines.
//
// DTOs use camelCase JSON tags. Timestamps use RFC3339 with milliseconds.
package api
