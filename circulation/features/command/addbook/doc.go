// Package addbook implements adding one physical copy of a book, registering the book in the
// catalog first when its ISBN is new.
package addbook
