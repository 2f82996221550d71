package types

// DefaultSampleIntervalMS is the recommended gap in milliseconds between the
// two counter snapshots; much shorter and counter granularity dominates the
// signal, much longer and the tool feels unresponsive.
const DefaultSampleIntervalMS = 800

// SocketRow is one displayed socket entry. Several processes can own the
// same socket (forked workers sharing a listener), so PIDs is a sequence in
// the order the enumerator reported them.
type SocketRow struct {
	Proto      string
	LocalAddr  string
	RemoteAddr string
	State      string
	PIDs       []int32
	Process    string
}

// CounterSnapshot captures one instant's cumulative counters for a PID.
// Every field is optional: nil means the platform, the process, or our
// permissions do not expose that counter, which is distinct from a zero
// reading.
type CounterSnapshot struct {
	CPUSeconds *float64 // busy CPU time, user+system
	ReadBytes  *uint64  // disk bytes read since process start
	WriteBytes *uint64  // disk bytes written since process start
	RxBytes    *uint64  // network bytes received, capability-gated
	TxBytes    *uint64  // network bytes sent, capability-gated
}

// ProcStats holds per-second rates derived for one PID from two snapshots.
// A nil field means the rate could not be measured (missing counter,
// counter regression, non-positive elapsed time), never "zero activity".
type ProcStats struct {
	CPUPct      *float64 // 0-100, clamped per PID
	ReadPerSec  *float64 // bytes/sec
	WritePerSec *float64 // bytes/sec
	RxPerSec    *float64 // bytes/sec
	TxPerSec    *float64 // bytes/sec
}

// RowStats aggregates ProcStats across the PIDs of one socket row. CPU
// percentages are summed, not averaged, so a multi-process row on a
// multi-core host can legitimately exceed 100.
type RowStats struct {
	CPUPct      *float64
	ReadPerSec  *float64
	WritePerSec *float64
	RxPerSec    *float64
	TxPerSec    *float64
}
