// Package categories implements listing the distinct categories of registered books.
package categories
