// Package retirecopy implements taking a copy out of circulation, for example when it is lost.
// A copy on loan has to be returned first.
package retirecopy
