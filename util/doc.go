// Package util provides small generic helpers: pointer construction and
// dereferencing, and slice membership and deduplication.
package util
