//go:build linux
// +build linux

package netbytes

import (
	"fmt"
	"path/filepath"

	"github.com/cilium/ebpf"
	"golang.org/x/sys/unix"
)

// MapSource reads cumulative per-task traffic counters from a bpffs-pinned
// eBPF map kept up to date by an external tracer hooked into the kernel
// send/receive paths. The map outlives any one invocation, which is what
// makes its counters usable as cumulative values.
type MapSource struct {
	m *ebpf.Map
}

// trafficKey mirrors the tracer's map key layout.
type trafficKey struct {
	Pid  uint32
	Comm [16]byte
}

// trafficStats mirrors the tracer's map value layout.
type trafficStats struct {
	RxBytes uint64
	TxBytes uint64
}

// NewMapSource opens the pinned traffic map. It fails when the pin path is
// not on bpffs or no tracer has pinned a map there; callers should treat
// that as "network counters unavailable", not as a fatal condition.
func NewMapSource(pinPath string) (*MapSource, error) {
	if pinPath == "" {
		pinPath = DefaultPinPath
	}

	var st unix.Statfs_t
	if err := unix.Statfs(filepath.Dir(pinPath), &st); err != nil {
		return nil, fmt.Errorf("checking pin directory: %w", err)
	}
	if st.Type != unix.BPF_FS_MAGIC {
		return nil, fmt.Errorf("%s is not on a bpf filesystem", filepath.Dir(pinPath))
	}

	m, err := ebpf.LoadPinnedMap(pinPath, nil)
	if err != nil {
		return nil, fmt.Errorf("loading pinned traffic map: %w", err)
	}
	return &MapSource{m: m}, nil
}

// Counters returns per-PID cumulative rx/tx byte totals, summing the
// tracer's per-thread records.
func (s *MapSource) Counters() (map[int32]Counters, error) {
	var (
		key  trafficKey
		stat trafficStats
	)
	entries := make([]threadEntry, 0, 64)
	iter := s.m.Iterate()
	for iter.Next(&key, &stat) {
		entries = append(entries, threadEntry{
			PID: int32(key.Pid),
			Rx:  stat.RxBytes,
			Tx:  stat.TxBytes,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("iterating traffic map: %w", err)
	}
	return sumByPID(entries), nil
}

// Close releases the map handle. The pinned map itself stays alive for the
// next invocation.
func (s *MapSource) Close() error {
	return s.m.Close()
}
