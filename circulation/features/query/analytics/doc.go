// Package analytics implements the admin reports: an overview of the collection, the loans
// overdue today, the most borrowed books, and the fines collected per month.
package analytics
