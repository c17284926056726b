// Package fleet provides an HTTP client for the fleet backend API.
//
// # Endpoints
//
//   - GET /api/routes: {"routes": [...]} with every route
//   - GET /api/routes/{slug}: a single route record
//
// Both are read-only. Records are decoded with route.Decode; a malformed
// record in the collection is logged and skipped rather than failing the
// snapshot.
//
// # Requests
//
// Every request:
//   - Uses the caller's context for cancellation
//   - Sets Accept: application/json and a routewatch User-Agent
//   - Carries a fresh X-Request-ID so backend logs can be correlated
//   - Sends Authorization: Bearer <token> only when a token is configured
//
// # Errors
//
// A 404 wraps ErrNotFound, so callers can use errors.Is. Other statuses of
// 400 and above return *StatusError. Network and decode failures are
// wrapped with fmt.Errorf.
//
// The client keeps no state between calls: no caching and no retries. The
// poll package decides the refresh cadence.
package fleet
