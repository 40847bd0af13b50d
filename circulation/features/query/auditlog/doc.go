// Package auditlog implements the audit log query. Every stored event, rejections included, is
// one audit entry carrying the acting staff user from the event metadata.
//
// Password hashes are dropped from the entry values.
package auditlog
