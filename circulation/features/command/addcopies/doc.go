// Package addcopies implements adding more copies of a book that is already in the catalog.
// All copies of one request are appended together.
package addcopies
