package engine

import (
	"bytes"
	"context"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/iocdefang/iocdefang/internal/ignore"
)

// ignoreFileDirective anywhere in a file excludes the whole file.
const ignoreFileDirective = "iocdefang:ignore-file"

// Walk traverses the tree under cfg.Root and invokes handle for each eligible
// text file with its slash-separated path relative to the root.
func Walk(ctx context.Context, cfg Config, ign ignore.Matcher, handle func(rel string, data []byte)) error {
	log := cfg.logger()
	return filepath.WalkDir(cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Debugw("walk error", "path", p, "error", err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if p != cfg.Root && cfg.DefaultExcludes && isDefaultDirExcluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, ok := eligible(cfg, ign, p, d)
		if !ok {
			return nil
		}
		b, err := os.ReadFile(p)
		if err != nil {
			log.Warnw("skipping unreadable file", "path", rel, "error", err)
			return nil
		}
		if bytes.Contains(b, []byte(ignoreFileDirective)) {
			log.Debugw("skipping file with ignore directive", "path", rel)
			return nil
		}
		if looksBinary(b) || looksNonTextMIME(rel, b) {
			log.Debugw("skipping non-text file", "path", rel)
			return nil
		}
		handle(rel, b)
		return nil
	})
}

// eligible applies the path and size filters that need no file content.
func eligible(cfg Config, ign ignore.Matcher, p string, d fs.DirEntry) (string, bool) {
	rel, err := filepath.Rel(cfg.Root, p)
	if err != nil || rel == "." {
		rel = filepath.Base(p)
	}
	rel = filepath.ToSlash(rel)
	if isStateFile(rel) {
		return rel, false
	}
	if !allowedByGlobs(rel, cfg) {
		return rel, false
	}
	if ign.Match(rel) {
		return rel, false
	}
	if cfg.MaxBytes > 0 {
		if info, err := d.Info(); err == nil && info.Size() > cfg.MaxBytes {
			return rel, false
		}
	}
	if cfg.DefaultExcludes && isDefaultFileExcluded(strings.ToLower(rel)) {
		return rel, false
	}
	return rel, true
}

func looksBinary(b []byte) bool {
	const sniff = 800
	n := sniff
	if len(b) < n {
		n = len(b)
	}
	return bytes.IndexByte(b[:n], 0) >= 0
}

// looksNonTextMIME uses the file extension and a tiny content sniff to skip
// clearly non-text content in addition to NUL-byte detection.
func looksNonTextMIME(path string, b []byte) bool {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		if strings.HasPrefix(ct, "image/") || strings.HasPrefix(ct, "video/") || strings.HasPrefix(ct, "audio/") {
			return true
		}
		if strings.Contains(ct, "zip") || strings.Contains(ct, "tar") || strings.Contains(ct, "gzip") {
			return true
		}
	}
	if len(b) >= 8 && string(b[:8]) == "\x89PNG\r\n\x1a\n" {
		return true
	}
	if len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4 {
		return true
	}
	return false
}

// CountTargets estimates the number of files a scan will read. It mirrors the
// path filters of Walk but does not open files.
func CountTargets(cfg Config) (int, error) {
	cfg = cfg.withDefaults()
	ign, _ := ignore.Load(filepath.Join(cfg.Root, ignore.FileName))
	count := 0
	err := filepath.WalkDir(cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != cfg.Root && cfg.DefaultExcludes && isDefaultDirExcluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := eligible(cfg, ign, p, d); ok {
			count++
		}
		return nil
	})
	return count, err
}
