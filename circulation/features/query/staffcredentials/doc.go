// Package staffcredentials implements looking up the credentials of an open staff account by
// username, for login.
//
// The username may have been given to the account by a rename, so the handler first finds the
// user ids that ever carried the name and then replays those accounts in full.
package staffcredentials
