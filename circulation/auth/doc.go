// Package auth logs staff members in and out.
//
// Passwords are stored as bcrypt hashes inside the staff account events. Login attempts are
// counted per username and client address in fixed windows, in Redis when it is configured
// and in process memory otherwise.
package auth
