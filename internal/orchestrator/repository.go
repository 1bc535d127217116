package orchestrator

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/src-d/enry/v2"

	"github.com/omniprof/omniprof/internal/report"
)

// goLanguage is the language name enry reports for Go sources.
const goLanguage = "Go"

// ProfileRepository statically analyzes every Go source file under root
// and aggregates a per-file breakdown plus a repository summary. When
// entry names a file relative to root, that file additionally gets the
// full dynamic pass and its sections are merged into the top-level
// report.
func (o *Orchestrator) ProfileRepository(ctx context.Context, root, entry string, opts Options) (*report.Report, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat repository: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	rep := &report.Report{
		Hardware: o.hardware,
		Files:    map[string]*report.Report{},
	}

	failed := 0

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if skipDir(d.Name()) {
				return filepath.SkipDir
			}

			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		if enry.IsVendor(rel) {
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			o.logger.Warn("skipping unreadable file", "path", rel, "error", readErr)
			failed++

			return nil
		}

		if enry.GetLanguage(d.Name(), data) != goLanguage {
			return nil
		}

		result := o.analyzer.Analyze(string(data))
		rep.Files[rel] = &report.Report{StaticAnalysis: &result}

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk repository: %w", walkErr)
	}

	rep.Summary = summarize(rep.Files, failed)

	if entry != "" {
		entryRep, entryErr := o.ProfileFile(ctx, filepath.Join(root, entry), opts)
		if entryErr != nil {
			return nil, fmt.Errorf("profile entry point: %w", entryErr)
		}

		rep.DynamicAnalysis = entryRep.DynamicAnalysis
		rep.ScaleneAnalysis = entryRep.ScaleneAnalysis
	}

	return rep, nil
}

// skipDir filters directory names that never hold analyzable first-party
// sources.
func skipDir(name string) bool {
	if strings.HasPrefix(name, ".") && name != "." {
		return true
	}

	return name == "vendor" || name == "node_modules" || name == "testdata"
}

// summarize folds the per-file static results into the repository
// overview.
func summarize(files map[string]*report.Report, failed int) map[string]any {
	totalFunctions := 0
	maintainability := 0.0

	for _, fileRep := range files {
		if fileRep.StaticAnalysis == nil {
			continue
		}

		totalFunctions += len(fileRep.StaticAnalysis.Complexity)
		maintainability += fileRep.StaticAnalysis.Maintainability
	}

	mean := 0.0
	if len(files) > 0 {
		mean = maintainability / float64(len(files))
	}

	return map[string]any{
		"files_analyzed":       len(files),
		"files_failed":         failed,
		"total_functions":      totalFunctions,
		"mean_maintainability": mean,
	}
}
