package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cleared-dev/concilia/internal/report"
	"github.com/cleared-dev/concilia/internal/textnorm"
)

// ProcessedDir is where archived inputs are moved, next to the originals.
const ProcessedDir = "processed"

var inputExts = map[string]bool{".csv": true, ".xlsx": true, ".xls": true, ".pdf": true}

// FileInfo describes one input file.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// IsStatement reports whether the file is a bank statement rather than a
// ledger report: every PDF, and any export whose name says "extrato".
func (f FileInfo) IsStatement() bool {
	if strings.EqualFold(filepath.Ext(f.Name), ".pdf") {
		return true
	}
	return strings.Contains(textnorm.Normalize(f.Name), "extrato")
}

func supported(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
		return false
	}
	// Artifacts of earlier runs written into the input folder.
	if strings.HasPrefix(name, "conciliacao_") || strings.HasPrefix(name, "lancamentos_contabeis") {
		return false
	}
	return inputExts[strings.ToLower(filepath.Ext(name))]
}

// Scan expands the given files and directories into input files.
// Directories are read one level deep; processed/ is never entered.
// Results are sorted by path and free of duplicates.
func Scan(inputs []string) ([]FileInfo, error) {
	seen := make(map[string]bool)
	var files []FileInfo
	add := func(path string, size int64) {
		if seen[path] {
			return
		}
		seen[path] = true
		files = append(files, FileInfo{Name: filepath.Base(path), Path: path, Size: size})
	}

	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		if !info.IsDir() {
			if !supported(info.Name()) {
				return nil, fmt.Errorf("%s: unsupported input type", in)
			}
			add(in, info.Size())
			continue
		}

		entries, err := os.ReadDir(in)
		if err != nil {
			return nil, fmt.Errorf("reading input dir: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() || !supported(e.Name()) {
				continue
			}
			fi, err := e.Info()
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
			}
			add(filepath.Join(in, e.Name()), fi.Size())
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Split separates ledger reports from statements, keeping order.
func Split(files []FileInfo) (ledgers, statements []FileInfo) {
	for _, f := range files {
		if f.IsStatement() {
			statements = append(statements, f)
		} else {
			ledgers = append(ledgers, f)
		}
	}
	return ledgers, statements
}

// MarkProcessed moves a file into the processed/ directory beside it.
func MarkProcessed(path string) error {
	dstDir := filepath.Join(filepath.Dir(path), ProcessedDir)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	name := filepath.Base(path)
	if err := os.Rename(path, filepath.Join(dstDir, name)); err != nil {
		return fmt.Errorf("moving %s to processed: %w", name, err)
	}
	return nil
}

func paths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

// outputName is the reconciliation workbook for a bank, or the consolidated
// one in aggregate mode.
func outputName(bank string) string {
	if bank == "" {
		return report.ConsolidatedXLSX
	}
	return report.ReconciliationFile(bank)
}
