// Package auth provides authentication and authorization for inkpost.
//
// # Authentication
//
// Users authenticate with a username/password pair against bcrypt hashes
// stored in the user store. A successful login mints an HS256-signed JWT
// carrying the user id in the "sub" claim with a configurable lifetime
// (one hour by default). Tokens are stateless: there is no server-side
// session and no revocation list; expiry is the only termination
// mechanism.
//
// Identity and role are checked in two explicit sequential steps: Login
// only proves identity, and role gating happens afterwards in the
// RequireAdmin middleware. Unknown usernames burn a dummy bcrypt
// comparison so lookup misses and password mismatches take the same time.
//
// # Middleware
//
// RequireAuth extracts the bearer token from the Authorization header,
// verifies it, and attaches the user id to the request context, where
// handlers read it via FromContext. RequireAdmin then resolves the user
// from the store on every request — no caching — and denies anyone
// whose stored role is not ADMIN, so role changes apply on the very
// next request.
package auth
