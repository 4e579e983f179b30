// ABOUTME: Package documentation for the blog HTTP API
// ABOUTME: Describes the route surface and the response conventions

// Package api implements the HTTP surface of the blog service.
//
// All routes live under /api. Public reads (post listing and detail) need
// no credentials; comment creation needs a valid bearer token; post and
// comment mutations additionally require the caller to hold the ADMIN role,
// resolved from the user store on every request.
//
// Failures are reported as {"errors": [{"msg": ..., "param": ...}]} and
// confirmations as {"message": ...}. Store lookups that miss map to 404
// uniformly.
package api
