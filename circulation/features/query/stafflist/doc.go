// Package stafflist implements listing the open staff accounts of one role.
package stafflist
