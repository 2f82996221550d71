// Package ui renders socket rows and their resource aggregates as an
// aligned text table. The core hands over raw bytes/sec and percentages;
// all human formatting (units, placeholders, truncation) lives here.
package ui

import (
	"fmt"
	"io"
	"text/tabwriter"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/marc47marc47/netstatw/pkg/types"
)

// placeholder marks metrics that could not be measured.
const placeholder = "-"

// Table writes the socket listing to w. When stats is non-nil it must be
// aligned by index with rows, and the resource columns are appended.
// procWidth > 0 truncates the PROCESS column to that many characters.
func Table(w io.Writer, rows []types.SocketRow, stats []types.RowStats, procWidth int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := "PROTO\tLOCAL ADDRESS\tREMOTE ADDRESS\tSTATE\tPROCESS"
	if stats != nil {
		header += "\tCPU%\tREAD/s\tWRITE/s\tRX/s\tTX/s"
	}
	fmt.Fprintln(tw, header)

	for i, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s",
			row.Proto, row.LocalAddr, row.RemoteAddr, row.State,
			truncate(row.Process, procWidth))
		if stats != nil {
			st := stats[i]
			fmt.Fprintf(tw, "\t%s\t%s\t%s\t%s\t%s",
				FormatPct(st.CPUPct),
				FormatRate(st.ReadPerSec),
				FormatRate(st.WritePerSec),
				FormatRate(st.RxPerSec),
				FormatRate(st.TxPerSec))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// isTerminal and terminalSize allow tests to stub the terminal probe.
var (
	isTerminal   = term.IsTerminal
	terminalSize = term.GetSize
)

// Approximate widths of the non-process columns including tab padding:
// PROTO, LOCAL ADDRESS, REMOTE ADDRESS and STATE for every listing, plus
// CPU%, READ/s, WRITE/s, RX/s and TX/s in full mode.
const (
	fixedListingWidth = 90
	fixedFullWidth    = fixedListingWidth + 50
)

// ProcessWidth returns a cap for the PROCESS column when fd is a terminal,
// leaving room for the columns the chosen mode prints; 0 means unlimited.
func ProcessWidth(fd int, full bool) int {
	if !isTerminal(fd) {
		return 0
	}
	cols, _, err := terminalSize(fd)
	if err != nil {
		return 0
	}
	fixed := fixedListingWidth
	if full {
		fixed = fixedFullWidth
	}
	if cols <= fixed+16 {
		return 16
	}
	return cols - fixed
}

// FormatPct renders a CPU percentage, or the placeholder when absent.
func FormatPct(v *float64) string {
	if v == nil {
		return placeholder
	}
	return fmt.Sprintf("%.1f", *v)
}

// FormatRate renders a bytes-per-second value with a human unit, or the
// placeholder when absent.
func FormatRate(v *float64) string {
	if v == nil {
		return placeholder
	}
	return formatBytes(*v) + "/s"
}

func formatBytes(v float64) string {
	const unit = 1024.0
	if v < unit {
		return fmt.Sprintf("%.0f B", v)
	}
	div, exp := unit, 0
	for n := v / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", v/div, "KMGTPE"[exp])
}

// truncate shortens s to width characters. It counts and cuts runes, not
// bytes, so a multi-byte character in an executable path is never split.
func truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
