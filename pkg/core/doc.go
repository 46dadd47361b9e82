// Package core provides a small, stable facade over the internal detection,
// defanging and scanning packages for external integrations. It re-exports a
// narrow API surface so other tools can depend on a stable import path
// without importing internal packages.
//
// Example:
//
//	out, matches := core.Defang("beacon to evil.example")
//	fmt.Println(out) // beacon to evil[.]example
//	_ = core.MarshalMatches(os.Stdout, matches)
package core
