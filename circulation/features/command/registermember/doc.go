// Package registermember implements registering a library member under a librarian-chosen id.
package registermember
