package netbytes

import "testing"

func TestSumByPIDMergesThreadEntries(t *testing.T) {
	entries := []threadEntry{
		{PID: 100, Rx: 1000, Tx: 50},
		{PID: 100, Rx: 200, Tx: 25},
		{PID: 7, Rx: 0, Tx: 9},
	}

	totals := sumByPID(entries)
	if len(totals) != 2 {
		t.Fatalf("expected 2 processes, got %d", len(totals))
	}
	if got := totals[100]; got.RxBytes != 1200 || got.TxBytes != 75 {
		t.Fatalf("pid 100 totals wrong: %+v", got)
	}
	if got := totals[7]; got.RxBytes != 0 || got.TxBytes != 9 {
		t.Fatalf("pid 7 totals wrong: %+v", got)
	}
}

func TestSumByPIDEmpty(t *testing.T) {
	totals := sumByPID(nil)
	if len(totals) != 0 {
		t.Fatalf("expected empty map, got %v", totals)
	}
}
