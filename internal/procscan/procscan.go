// Package procscan looks for running processes by executable name
package procscan

import (
	"context"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/shirou/gopsutil/v3/process"
)

// Find returns the PIDs of every process whose name matches name, ignoring
// case. Processes whose name cannot be read are skipped.
func Find(ctx context.Context, name string, logger hclog.Logger) ([]int32, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if name == "" {
		return nil, nil
	}

	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	var pids []int32
	for _, p := range procs {
		procName, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		if strings.EqualFold(procName, name) {
			pids = append(pids, p.Pid)
		}
	}
	logger.Trace("Process scan finished", "name", name, "scanned", len(procs), "matches", len(pids))
	return pids, nil
}

// Running reports whether any process named name is running.
func Running(ctx context.Context, name string, logger hclog.Logger) bool {
	pids, err := Find(ctx, name, logger)
	if err != nil {
		if logger != nil {
			logger.Debug("Process scan failed", "error", err)
		}
		return false
	}
	return len(pids) > 0
}
