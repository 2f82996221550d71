package report

import (
	"testing"

	"github.com/marc47marc47/netstatw/pkg/types"
)

func f64p(v float64) *float64 { return &v }

func TestAggregateSumsOnlyRowPIDs(t *testing.T) {
	rates := map[int32]types.ProcStats{
		1: {ReadPerSec: f64p(100)},
		2: {},                      // alive but no measurable rates
		3: {ReadPerSec: f64p(500)}, // not part of the row
	}

	agg := Aggregate([]int32{1, 2}, rates, 0)
	if agg.ReadPerSec == nil || *agg.ReadPerSec != 100 {
		t.Fatalf("expected 100 from pid 1 alone, got %v", agg.ReadPerSec)
	}
	if agg.WritePerSec != nil {
		t.Fatalf("no contributor has write rates, aggregate must be absent")
	}
}

func TestAggregateAbsentWithoutContributors(t *testing.T) {
	agg := Aggregate([]int32{41, 42}, map[int32]types.ProcStats{}, 0)
	if agg.CPUPct != nil || agg.ReadPerSec != nil || agg.WritePerSec != nil ||
		agg.RxPerSec != nil || agg.TxPerSec != nil {
		t.Fatalf("row of vanished pids should aggregate to fully absent: %+v", agg)
	}
}

func TestAggregateTopNTruncatesInRowOrder(t *testing.T) {
	rates := map[int32]types.ProcStats{
		1: {WritePerSec: f64p(10)},
		2: {WritePerSec: f64p(20)},
		3: {WritePerSec: f64p(1 << 30)}, // must not leak into the aggregate
	}

	agg := Aggregate([]int32{1, 2, 3}, rates, 2)
	if agg.WritePerSec == nil || *agg.WritePerSec != 30 {
		t.Fatalf("top-n must keep the first pids in row order, got %v", agg.WritePerSec)
	}
}

func TestAggregateCPUSumNotClamped(t *testing.T) {
	rates := map[int32]types.ProcStats{
		1: {CPUPct: f64p(60)},
		2: {CPUPct: f64p(70)},
	}

	agg := Aggregate([]int32{1, 2}, rates, 0)
	if agg.CPUPct == nil || *agg.CPUPct != 130 {
		t.Fatalf("row cpu is the unclamped sum across pids, got %v", agg.CPUPct)
	}
}

func TestRowsAlignWithInput(t *testing.T) {
	rates := map[int32]types.ProcStats{
		1: {RxPerSec: f64p(5)},
		2: {RxPerSec: f64p(7)},
	}
	rows := []types.SocketRow{
		{PIDs: []int32{1}},
		{PIDs: nil},
		{PIDs: []int32{1, 2}},
	}

	stats := Rows(rows, rates, 0)
	if len(stats) != 3 {
		t.Fatalf("expected 3 aggregates, got %d", len(stats))
	}
	if stats[0].RxPerSec == nil || *stats[0].RxPerSec != 5 {
		t.Fatalf("row 0 wrong: %v", stats[0].RxPerSec)
	}
	if stats[1].RxPerSec != nil {
		t.Fatalf("row without pids must be fully absent")
	}
	if stats[2].RxPerSec == nil || *stats[2].RxPerSec != 12 {
		t.Fatalf("row 2 wrong: %v", stats[2].RxPerSec)
	}
}
