// Package audit keeps an append-only JSON Lines history of scans.
package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iocdefang/iocdefang/internal/types"
)

// ScanRecord summarises one scan. Findings are stored in defanged form only.
type ScanRecord struct {
	Timestamp      time.Time        `json:"timestamp"`
	ScanID         string           `json:"scan_id"`
	Root           string           `json:"root"`
	TotalFindings  int              `json:"total_findings"`
	NewFindings    int              `json:"new_findings"`
	BaselinedCount int              `json:"baselined_count"`
	KindCounts     map[string]int   `json:"kind_counts"`
	FilesScanned   int              `json:"files_scanned"`
	FilesCached    int              `json:"files_cached"`
	Duration       string           `json:"duration"`
	BaselineFile   string           `json:"baseline_file,omitempty"`
	TopFindings    []FindingSummary `json:"top_findings,omitempty"`
}

type FindingSummary struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	Defanged string `json:"defanged"`
	Line     int    `json:"line"`
}

// maxRecordBytes bounds a single JSONL record.
const maxRecordBytes = 4 << 20

type AuditLog struct {
	logPath string
}

// LogPath returns where the audit log for root lives: inside .git when the
// root is a repository, otherwise a dotfile in root.
func LogPath(root string) string {
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, "iocdefang_audit.jsonl")
	}
	return filepath.Join(root, ".iocdefang_audit.jsonl")
}

func NewAuditLog(root string) *AuditLog {
	return &AuditLog{logPath: LogPath(root)}
}

// LoadHistory returns all records, newest first. Corrupt lines are skipped.
func (a *AuditLog) LoadHistory() ([]ScanRecord, error) {
	f, err := os.Open(a.logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []ScanRecord
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxRecordBytes)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var record ScanRecord
		if err := json.Unmarshal(line, &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (a *AuditLog) LogScan(record ScanRecord) error {
	if record.ScanID == "" {
		record.ScanID = fmt.Sprintf("scan_%d", record.Timestamp.UnixNano())
	}

	// owner-only: the log names files that contain indicators
	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// DeleteRecord removes the record at index, counted newest first as returned
// by LoadHistory.
func (a *AuditLog) DeleteRecord(index int) error {
	records, err := a.LoadHistory()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(records) {
		return fmt.Errorf("invalid index: %d", index)
	}
	records = append(records[:index], records[index+1:]...)

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to rewrite audit log: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	for _, record := range records {
		if err := encoder.Encode(record); err != nil {
			return fmt.Errorf("failed to write audit record: %w", err)
		}
	}
	return nil
}

const maxTopFindings = 10

func CreateScanRecord(
	root string,
	allFindings []types.Finding,
	newFindings []types.Finding,
	filesScanned int,
	filesCached int,
	duration time.Duration,
	baselineFile string,
) ScanRecord {
	kindCounts := make(map[string]int)
	for _, f := range allFindings {
		kindCounts[string(f.Kind)]++
	}

	topFindings := make([]FindingSummary, 0, maxTopFindings)
	for i, f := range newFindings {
		if i >= maxTopFindings {
			break
		}
		topFindings = append(topFindings, FindingSummary{
			Path:     f.Path,
			Kind:     string(f.Kind),
			Defanged: f.Defanged,
			Line:     f.Line,
		})
	}

	return ScanRecord{
		Timestamp:      time.Now(),
		Root:           root,
		TotalFindings:  len(allFindings),
		NewFindings:    len(newFindings),
		BaselinedCount: len(allFindings) - len(newFindings),
		KindCounts:     kindCounts,
		FilesScanned:   filesScanned,
		FilesCached:    filesCached,
		Duration:       duration.String(),
		BaselineFile:   baselineFile,
		TopFindings:    topFindings,
	}
}
