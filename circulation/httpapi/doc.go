// Package httpapi exposes the circulation, catalog, staff and reporting slices over HTTP.
//
// Every route except /healthz is wrapped by the access gate. Handlers receive the gate's
// session as a parameter and record its user id as the acting librarian or admin.
// Failures are mapped by kind: validation 400, not_found 404, conflict 409, auth 401.
// Too many login attempts answers 429, and a return that needs a fine paid answers 402.
package httpapi
