// Package openstaffaccount implements creating an admin or librarian account.
// Usernames are unique among open accounts. The password arrives already hashed.
package openstaffaccount
