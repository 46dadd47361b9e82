// Package detectors finds indicators of compromise in free text. Each
// detector family scans the whole string for its own pattern; Detect runs the
// families in a fixed order, filters conflicting domain candidates and
// returns the matches sorted by position.
package detectors
