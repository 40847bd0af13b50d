// Package session turns a logged-in staff member into a cookie value and back.
//
// Two codecs exist. PlainCodec writes the session as base64url encoded JSON without any
// integrity protection and is only meant for local setups. SignedCodec writes an HS256 JWT.
// Both reject anything that does not decode into a session with a known role.
package session
