// Package accessgate decides, for every inbound request, whether it may reach its handler.
//
// Evaluate is a pure function of the path and the session cookie. Guard turns its Decision
// into an HTTP response or hands the decoded session to the wrapped handler as a parameter.
package accessgate
