// Package counters takes point-in-time captures of cumulative per-process
// counters (CPU time, disk bytes, network bytes). One capture alone says
// nothing about current activity; the sampler pairs two of them.
package counters

import (
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/marc47marc47/netstatw/pkg/collector/netbytes"
	"github.com/marc47marc47/netstatw/pkg/types"
)

// Source captures cumulative counters for a set of PIDs at one instant.
// PIDs that no longer exist or cannot be inspected are omitted from the
// result; a missing counter on a live PID degrades to a nil field.
type Source interface {
	Snapshot(pids []int32) map[int32]types.CounterSnapshot
}

// procHandle is the slice of gopsutil's process API the snapshotter uses.
type procHandle interface {
	Times() (*cpu.TimesStat, error)
	IOCounters() (*process.IOCountersStat, error)
}

// openProcess allows tests to stub process resolution that normally hits
// the OS.
var openProcess = func(pid int32) (procHandle, error) {
	return process.NewProcess(pid)
}

// SystemSource reads counters from the host with one targeted lookup per
// requested PID. It never walks the full process table.
type SystemSource struct {
	// Net supplies per-PID network byte totals where the platform has a
	// per-process accounting facility; nil leaves the network fields
	// absent for every PID.
	Net netbytes.Source
}

// Snapshot captures counters for each resolvable requested PID. Each field
// is populated independently, so a PID can report CPU time but no disk
// counters (common when /proc/<pid>/io is unreadable).
func (s *SystemSource) Snapshot(pids []int32) map[int32]types.CounterSnapshot {
	out := make(map[int32]types.CounterSnapshot, len(pids))

	var netTotals map[int32]netbytes.Counters
	if s.Net != nil {
		if totals, err := s.Net.Counters(); err == nil {
			netTotals = totals
		}
	}

	seen := make(map[int32]struct{}, len(pids))
	for _, pid := range pids {
		if pid <= 0 {
			continue
		}
		if _, ok := seen[pid]; ok {
			continue
		}
		seen[pid] = struct{}{}

		proc, err := openProcess(pid)
		if err != nil {
			// Gone, or not ours to inspect. Not an error for the batch.
			continue
		}

		var snap types.CounterSnapshot
		if times, err := proc.Times(); err == nil && times != nil {
			busy := times.User + times.System
			snap.CPUSeconds = &busy
		}
		if io, err := proc.IOCounters(); err == nil && io != nil {
			read, write := io.ReadBytes, io.WriteBytes
			snap.ReadBytes = &read
			snap.WriteBytes = &write
		}
		if c, ok := netTotals[pid]; ok {
			rx, tx := c.RxBytes, c.TxBytes
			snap.RxBytes = &rx
			snap.TxBytes = &tx
		}
		out[pid] = snap
	}

	return out
}
