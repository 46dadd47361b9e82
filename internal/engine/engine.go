package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iocdefang/iocdefang/internal/cache"
	"github.com/iocdefang/iocdefang/internal/detectors"
	"github.com/iocdefang/iocdefang/internal/ignore"
	"github.com/iocdefang/iocdefang/internal/logging"
	"github.com/iocdefang/iocdefang/internal/types"
)

// Config controls scanning behavior including scope, performance, and filters.
type Config struct {
	Root             string
	IncludeGlobs     string
	ExcludeGlobs     string
	MaxBytes         int64
	Threads          int
	EnableDetectors  string
	DisableDetectors string
	DefaultExcludes  bool
	NoCache          bool
	DryRun           bool
	// Progress is called once per processed file, never concurrently.
	Progress func()
	Logger   *zap.SugaredLogger
}

// Result contains findings and basic scan statistics.
type Result struct {
	Findings     []types.Finding
	FilesScanned int
	FilesCached  int
	FilesFailed  int
	Duration     time.Duration
	KindCounts   map[types.Kind]int
}

func (cfg Config) logger() *zap.SugaredLogger {
	if cfg.Logger == nil {
		return logging.Nop()
	}
	return cfg.Logger
}

func (cfg Config) withDefaults() Config {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.Threads <= 0 {
		cfg.Threads = runtime.GOMAXPROCS(0)
	}
	return cfg
}

// DetectorIDs returns the IDs of every available detector.
func DetectorIDs() []string {
	return detectors.IDs()
}

// Scan runs a scan and returns only findings (without stats).
func Scan(ctx context.Context, cfg Config) ([]types.Finding, error) {
	res, err := ScanWithStats(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return res.Findings, nil
}

// ScanWithStats runs a scan and returns findings along with timing and counts.
// Findings are sorted by path, then position. A file whose detection panics
// is logged and skipped.
func ScanWithStats(ctx context.Context, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()
	log := cfg.logger()
	result := Result{KindCounts: map[types.Kind]int{}}

	if _, err := os.Stat(cfg.Root); err != nil {
		return result, fmt.Errorf("scan root: %w", err)
	}
	ids := detectors.Select(cfg.EnableDetectors, cfg.DisableDetectors)
	selection := strings.Join(ids, ",")

	db := cache.DB{Entries: map[string]cache.Entry{}}
	if !cfg.NoCache && !cfg.DryRun {
		loaded, err := cache.Load(cfg.Root)
		if err != nil {
			log.Debugw("starting with empty cache", "error", err)
		}
		if loaded.Detectors == selection {
			db = loaded
		}
	}
	updated := cache.DB{Detectors: selection, Entries: map[string]cache.Entry{}}
	ign, _ := ignore.Load(filepath.Join(cfg.Root, ignore.FileName))

	started := time.Now()
	var (
		mu  sync.Mutex
		out []types.Finding
	)
	done := func(fs []types.Finding, cached, failed bool) {
		mu.Lock()
		defer mu.Unlock()
		out = append(out, fs...)
		result.FilesScanned++
		if cached {
			result.FilesCached++
		}
		if failed {
			result.FilesFailed++
		}
		if cfg.Progress != nil {
			cfg.Progress()
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Threads)
	walkErr := Walk(gctx, cfg, ign, func(rel string, data []byte) {
		if cfg.DryRun {
			done(nil, false, false)
			return
		}
		g.Go(func() error {
			hash := cache.Hash(data)
			if fs, ok := db.Lookup(rel, hash); ok {
				mu.Lock()
				updated.Entries[rel] = cache.Entry{Hash: hash, Findings: fs}
				mu.Unlock()
				done(fs, true, false)
				return nil
			}
			var (
				fs       []types.Finding
				panicked bool
			)
			func() {
				defer logging.RecoverInto("detect:"+rel, log, &panicked)
				fs = ScanText(rel, string(data), ids)
			}()
			if panicked {
				done(nil, false, true)
				return nil
			}
			mu.Lock()
			updated.Entries[rel] = cache.Entry{Hash: hash, Findings: fs}
			mu.Unlock()
			done(fs, false, false)
			return nil
		})
	})
	if err := g.Wait(); err != nil && walkErr == nil {
		walkErr = err
	}
	if walkErr != nil {
		return result, fmt.Errorf("walk %s: %w", cfg.Root, walkErr)
	}

	sortFindings(out)
	for _, f := range out {
		result.KindCounts[f.Kind]++
	}
	result.Findings = out
	result.Duration = time.Since(started)

	if !cfg.NoCache && !cfg.DryRun {
		if err := cache.Save(cfg.Root, updated); err != nil {
			log.Warnw("could not save cache", "root", cfg.Root, "error", err)
		}
	}
	log.Infow("scan complete",
		"root", cfg.Root,
		"files", result.FilesScanned,
		"cached", result.FilesCached,
		"findings", len(out),
		"duration", result.Duration)
	return result, nil
}

// ScanText detects IOCs in one in-memory text with the given detector IDs
// (nil for all) and locates them by line and column. Inline directives are
// honoured:
//
//	iocdefang:ignore             skip matches on this line
//	iocdefang:ignore-next-line   skip matches on the following line
//	iocdefang:ignore-start/-end  skip matches in the enclosed region
func ScanText(path, text string, ids []string) []types.Finding {
	ms := detectors.DetectWith(text, ids)
	if len(ms) == 0 {
		return nil
	}
	starts := lineStarts(text)
	skip := ignoredLines(text)
	var out []types.Finding
	for _, m := range ms {
		line := sort.Search(len(starts), func(i int) bool { return starts[i] > m.Start })
		if skip[line] {
			continue
		}
		out = append(out, types.Finding{
			Path:   path,
			Line:   line,
			Column: m.Start - starts[line-1] + 1,
			Match:  m,
		})
	}
	return out
}

// lineStarts returns the byte offset at which each line begins.
func lineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// ignoredLines returns the 1-based line numbers suppressed by directives.
func ignoredLines(text string) map[int]bool {
	if !strings.Contains(text, "iocdefang:ignore") {
		return nil
	}
	skip := map[int]bool{}
	region := false
	for i, l := range strings.Split(text, "\n") {
		n := i + 1
		switch {
		case strings.Contains(l, "iocdefang:ignore-start"):
			region = true
			skip[n] = true
		case strings.Contains(l, "iocdefang:ignore-end"):
			region = false
			skip[n] = true
		case region:
			skip[n] = true
		case strings.Contains(l, "iocdefang:ignore-next-line"):
			skip[n] = true
			skip[n+1] = true
		case strings.Contains(l, "iocdefang:ignore"):
			skip[n] = true
		}
	}
	return skip
}

func sortFindings(fs []types.Finding) {
	sort.SliceStable(fs, func(i, j int) bool {
		if fs[i].Path != fs[j].Path {
			return fs[i].Path < fs[j].Path
		}
		return fs[i].Start < fs[j].Start
	})
}
