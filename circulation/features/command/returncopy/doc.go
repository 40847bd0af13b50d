// Package returncopy implements the two-phase return of a borrowed copy.
//
// Phase 1 closes a borrow that is not overdue right away. For an overdue borrow it appends
// nothing and reports the assessed fine instead, so the librarian can collect the payment.
// Phase 2 confirms that payment with the fine's id. The fine is assessed again from the current
// events and must produce the same id, otherwise the confirmation is stale. A matching
// confirmation settles the fine and closes the borrow in one append.
package returncopy
