// Package report combines per-PID rates into the per-row statistics the
// table renderer consumes.
package report

import "github.com/marc47marc47/netstatw/pkg/types"

// Aggregate sums the present fields of each considered PID's stats into one
// row-level value. A field is present in the result iff at least one
// contributing PID has it present; a row whose PIDs all lack a field keeps
// that field absent.
//
// topN > 0 considers only the first topN PIDs of the row's existing order.
// It bounds output width and is not a "top by usage" selection: no
// reordering or ranking by magnitude happens here.
//
// CPU percentages are summed, not averaged; the total load attributable to
// a row's processes can exceed 100 on multi-core hosts and is deliberately
// left unclamped and unnormalized by core count.
func Aggregate(pids []int32, rates map[int32]types.ProcStats, topN int) types.RowStats {
	if topN > 0 && len(pids) > topN {
		pids = pids[:topN]
	}

	var agg types.RowStats
	for _, pid := range pids {
		st, ok := rates[pid]
		if !ok {
			continue
		}
		agg.CPUPct = addPresent(agg.CPUPct, st.CPUPct)
		agg.ReadPerSec = addPresent(agg.ReadPerSec, st.ReadPerSec)
		agg.WritePerSec = addPresent(agg.WritePerSec, st.WritePerSec)
		agg.RxPerSec = addPresent(agg.RxPerSec, st.RxPerSec)
		agg.TxPerSec = addPresent(agg.TxPerSec, st.TxPerSec)
	}
	return agg
}

// Rows aggregates every socket row against one shared rate map, returning
// results aligned by index with the input.
func Rows(rows []types.SocketRow, rates map[int32]types.ProcStats, topN int) []types.RowStats {
	out := make([]types.RowStats, len(rows))
	for i, row := range rows {
		out[i] = Aggregate(row.PIDs, rates, topN)
	}
	return out
}

// addPresent folds one optional contribution into an optional accumulator.
// Absent contributions leave the accumulator untouched, so the sum stays
// absent until the first present value arrives.
func addPresent(acc, v *float64) *float64 {
	if v == nil {
		return acc
	}
	sum := *v
	if acc != nil {
		sum += *acc
	}
	return &sum
}
