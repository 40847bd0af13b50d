// Package updatestaffaccount implements changing the username, password, or contact details of
// a staff account. An empty password hash keeps the current password.
package updatestaffaccount
