// Package sampler turns cumulative per-process counters into per-second
// rates. The counters only ever grow, so a single capture can at best give
// a lifetime average; current activity needs two captures bracketing a
// known gap.
package sampler

import (
	"time"

	"github.com/marc47marc47/netstatw/pkg/collector/counters"
	"github.com/marc47marc47/netstatw/pkg/types"
)

// Sampler owns the two-snapshot protocol: capture the whole batch, sleep,
// capture again, derive rates from the deltas. The sleep is the only
// intentional suspension point in the program.
type Sampler struct {
	source counters.Source

	// now and sleep are swappable so tests can simulate clock behavior
	// without waiting out a real interval.
	now   func() time.Time
	sleep func(time.Duration)
}

// New returns a Sampler reading from src with the real clock.
func New(src counters.Source) *Sampler {
	return &Sampler{source: src, now: time.Now, sleep: time.Sleep}
}

// SampleRates captures two batch snapshots separated by interval and
// derives per-second rates for every PID present in both. The elapsed time
// is measured rather than assumed equal to interval, so scheduler jitter
// lengthens the denominator instead of inflating the rates.
//
// PIDs that appear in only one snapshot are dropped, not reported as zero.
// If the measured elapsed time is not strictly positive the whole batch
// has no rates.
func (s *Sampler) SampleRates(pids []int32, interval time.Duration) map[int32]types.ProcStats {
	stats := make(map[int32]types.ProcStats, len(pids))
	if len(pids) == 0 {
		return stats
	}

	before := s.source.Snapshot(pids)
	t0 := s.now()
	s.sleep(interval)
	after := s.source.Snapshot(pids)
	t1 := s.now()

	elapsed := t1.Sub(t0).Seconds()
	if elapsed <= 0 {
		return stats
	}

	for pid, first := range before {
		second, ok := after[pid]
		if !ok {
			continue
		}
		stats[pid] = types.ProcStats{
			CPUPct:      cpuPercent(first.CPUSeconds, second.CPUSeconds, elapsed),
			ReadPerSec:  byteRate(first.ReadBytes, second.ReadBytes, elapsed),
			WritePerSec: byteRate(first.WriteBytes, second.WriteBytes, elapsed),
			RxPerSec:    byteRate(first.RxBytes, second.RxBytes, elapsed),
			TxPerSec:    byteRate(first.TxBytes, second.TxBytes, elapsed),
		}
	}
	return stats
}

// byteRate derives a bytes-per-second rate from two cumulative readings.
// A reading missing on either side, or a counter that went backwards
// (counter reset, PID reuse between the snapshots), yields absence: a
// reused PID must not present a spurious "normal" rate.
func byteRate(c0, c1 *uint64, elapsed float64) *float64 {
	if c0 == nil || c1 == nil {
		return nil
	}
	if *c1 < *c0 {
		return nil
	}
	rate := float64(*c1-*c0) / elapsed
	return &rate
}

// cpuPercent derives a CPU percentage from two cumulative busy-time
// readings, clamped to [0, 100] for a single PID.
func cpuPercent(c0, c1 *float64, elapsed float64) *float64 {
	if c0 == nil || c1 == nil {
		return nil
	}
	if *c1 < *c0 {
		return nil
	}
	pct := 100 * (*c1 - *c0) / elapsed
	if pct > 100 {
		pct = 100
	}
	return &pct
}
