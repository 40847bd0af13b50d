// Package searchcatalog implements the catalog search: a free-text query over title, authors,
// ISBN, and publisher, optionally narrowed by category and availability, with ranked results.
package searchcatalog
