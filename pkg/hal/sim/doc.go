// Package sim is a software rendition of the reader board, used by
// tests and for bench runs without hardware attached.
package sim
