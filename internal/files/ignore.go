// Package files edits repository housekeeping files.
package files

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// AppendIgnore ensures each pattern is present in .gitignore at repoRoot.
// It creates the file if missing and keeps one pattern per line. Idempotent.
func AppendIgnore(repoRoot string, patterns ...string) error {
	path := filepath.Join(repoRoot, ".gitignore")
	existing := map[string]bool{}
	endsWithNewline := true
	if b, err := os.ReadFile(path); err == nil {
		sc := bufio.NewScanner(strings.NewReader(string(b)))
		for sc.Scan() {
			existing[strings.TrimSpace(sc.Text())] = true
		}
		endsWithNewline = len(b) == 0 || b[len(b)-1] == '\n'
	}
	var add []string
	for _, p := range patterns {
		if p != "" && !existing[p] {
			add = append(add, p)
			existing[p] = true
		}
	}
	if len(add) == 0 {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	var sb strings.Builder
	if !endsWithNewline {
		sb.WriteByte('\n')
	}
	for _, p := range add {
		sb.WriteString(p + "\n")
	}
	_, err = f.WriteString(sb.String())
	return err
}

// StateIgnores returns the files a scan may leave in a tree without a .git
// directory.
func StateIgnores() []string {
	return []string{
		".iocdefangcache.json",
		".iocdefang_last_scan.json",
		".iocdefang_audit.jsonl",
	}
}
