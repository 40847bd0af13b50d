// Package borrowcopy implements lending an available copy to a registered member.
//
// The decision needs the copy's lending history and the member's registration, so the
// event filter spans both. Both are guarded by the same conditional append: two librarians
// lending the same copy at once cannot both succeed.
//
// Rejections are recorded as BorrowingCopyFailed events and returned as core.Failure values.
package borrowcopy
