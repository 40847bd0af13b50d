// Package checkstatus implements the Check Status query: the state of one copy, its book, and
// the open borrow if there is one.
//
// It reads twice: the copy's events first, then the catalog entry of the ISBN they name.
package checkstatus
