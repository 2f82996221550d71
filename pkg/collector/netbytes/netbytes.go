// Package netbytes exposes cumulative per-process network byte counters on
// platforms with a per-PID accounting facility. Hosts without one simply
// have no Source; every consumer must treat that as uniform absence rather
// than branching on the platform.
package netbytes

// DefaultPinPath is where the companion tracer pins its per-task traffic
// map on bpffs.
const DefaultPinPath = "/sys/fs/bpf/netstatw/proc_net_stats"

// Counters holds cumulative network byte counts for one PID.
type Counters struct {
	RxBytes uint64
	TxBytes uint64
}

// Source yields a best-effort mapping from PID to cumulative network
// counters. Implementations may return entries for PIDs nobody asked
// about; callers pick out the ones they track.
type Source interface {
	Counters() (map[int32]Counters, error)
}

// threadEntry is one raw accounting record. Traffic is accounted per task,
// so a multi-threaded process shows up once per thread that touched a
// socket.
type threadEntry struct {
	PID int32
	Rx  uint64
	Tx  uint64
}

// sumByPID folds per-thread records into per-process totals.
func sumByPID(entries []threadEntry) map[int32]Counters {
	totals := make(map[int32]Counters, len(entries))
	for _, e := range entries {
		c := totals[e.PID]
		c.RxBytes += e.Rx
		c.TxBytes += e.Tx
		totals[e.PID] = c
	}
	return totals
}
