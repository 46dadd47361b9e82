// Package ignore matches paths against a gitignore-style pattern file.
package ignore

import (
	"bufio"
	"os"
	"path"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// FileName is the ignore file looked up in the scan root.
const FileName = ".iocdefangignore"

// Matcher holds the patterns of one ignore file. The zero value matches
// nothing.
type Matcher struct {
	patterns []string
}

// Load reads patterns from path, one per line; blank lines and lines starting
// with '#' are skipped. On error the returned Matcher is empty but usable.
func Load(p string) (Matcher, error) {
	f, err := os.Open(p)
	if err != nil {
		return Matcher{}, err
	}
	defer f.Close()
	var m Matcher
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m.patterns = append(m.patterns, line)
	}
	return m, sc.Err()
}

// New builds a Matcher from patterns directly.
func New(patterns ...string) Matcher {
	return Matcher{patterns: patterns}
}

// Match reports whether the slash-separated relative path is ignored.
// A pattern ending in "/" ignores a directory and everything below it; a
// pattern without "/" is also tried against the base name.
func (m Matcher) Match(rel string) bool {
	rel = strings.ReplaceAll(rel, "\\", "/")
	for _, p := range m.patterns {
		if strings.HasSuffix(p, "/") {
			dir := strings.TrimSuffix(p, "/")
			if rel == dir || strings.HasPrefix(rel, dir+"/") {
				return true
			}
			if ok, _ := doublestar.Match("**/"+dir+"/**", rel); ok {
				return true
			}
			continue
		}
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if !strings.Contains(p, "/") {
			if ok, _ := doublestar.Match(p, path.Base(rel)); ok {
				return true
			}
		}
	}
	return false
}
