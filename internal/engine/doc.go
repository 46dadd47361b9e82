// Package engine scans a directory tree for indicators of compromise. It
// walks eligible text files, runs the detectors on each with a bounded
// worker pool, and returns findings located by path, line and column. This
// package is internal; external consumers should use the facade in pkg/core.
package engine
