package preflight

import (
	"dynastysync/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every check that applies. The save file check only runs
// when savePath is set.
func RunAll(cfg *config.Config, savePath string) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckSidecarBinary(cfg.Sidecar.Binary),
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if savePath != "" {
		results = append(results, CheckSaveFile(savePath))
	}
	return results
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
