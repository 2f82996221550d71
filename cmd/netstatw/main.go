// Command netstatw prints a one-shot socket listing with owning processes,
// optionally augmented with per-row CPU, disk and network rates sampled
// over a short interval.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/marc47marc47/netstatw/pkg/collector/counters"
	"github.com/marc47marc47/netstatw/pkg/collector/netbytes"
	"github.com/marc47marc47/netstatw/pkg/config"
	"github.com/marc47marc47/netstatw/pkg/report"
	"github.com/marc47marc47/netstatw/pkg/sampler"
	"github.com/marc47marc47/netstatw/pkg/sockets"
	"github.com/marc47marc47/netstatw/pkg/types"
	"github.com/marc47marc47/netstatw/pkg/ui"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("netstatw: ")

	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	rows, err := sockets.List(sockets.Options{Proto: cfg.Proto, Family: cfg.Family})
	if err != nil {
		log.Fatalf("enumerating sockets: %v", err)
	}

	// In full mode the listing blocks for at least the sample interval;
	// that wait is the measurement, not overhead.
	var stats []types.RowStats
	if cfg.Full {
		stats = sampleRowStats(rows, cfg)
	}

	procWidth := ui.ProcessWidth(int(os.Stdout.Fd()), cfg.Full)
	if err := ui.Table(os.Stdout, rows, stats, procWidth); err != nil {
		log.Fatalf("rendering table: %v", err)
	}
}

// parseConfig layers command line flags over the config file over the
// built-in defaults. Only flags the user actually set override the file.
func parseConfig(args []string) (config.Config, error) {
	defaults := config.Default()

	fs := flag.NewFlagSet("netstatw", flag.ContinueOnError)
	var (
		cfgPath  = fs.String("config", "", "YAML config file (default ~/"+config.DefaultFileName+")")
		full     = fs.Bool("full", defaults.Full, "sample per-process cpu, disk and network rates")
		interval = fs.Duration("interval", defaults.SampleInterval, "gap between the two counter snapshots (e.g. 800ms, 2s)")
		topPIDs  = fs.Int("top-pids", defaults.TopPIDs, "max processes counted per row, 0 for all")
		proto    = fs.String("proto", defaults.Proto, "protocol filter: tcp, udp or all")
		family   = fs.String("family", defaults.Family, "address family filter: 4, 6 or all")
		pin      = fs.String("net-counters-pin", defaults.NetCountersPin, "bpffs path of the per-process traffic map")
	)
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return config.Config{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "full":
			cfg.Full = *full
		case "interval":
			cfg.SampleInterval = *interval
		case "top-pids":
			cfg.TopPIDs = *topPIDs
		case "proto":
			cfg.Proto = *proto
		case "family":
			cfg.Family = *family
		case "net-counters-pin":
			cfg.NetCountersPin = *pin
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// sampleRowStats runs the two-snapshot pipeline over every PID the listing
// references and folds the per-PID rates back into per-row aggregates.
// Nothing in here is fatal: a missing counter ends up as a blank cell.
func sampleRowStats(rows []types.SocketRow, cfg config.Config) []types.RowStats {
	src := &counters.SystemSource{}
	if net, err := netbytes.NewMapSource(cfg.NetCountersPin); err == nil {
		src.Net = net
		defer net.Close()
	} else {
		log.Printf("network counters unavailable: %v", err)
	}

	rates := sampler.New(src).SampleRates(uniquePIDs(rows), cfg.SampleInterval)
	return report.Rows(rows, rates, cfg.TopPIDs)
}

// uniquePIDs collects the PIDs of all rows in first-appearance order, so
// the snapshot source is only ever asked about displayed processes.
func uniquePIDs(rows []types.SocketRow) []int32 {
	seen := make(map[int32]struct{})
	var pids []int32
	for _, row := range rows {
		for _, pid := range row.PIDs {
			if _, ok := seen[pid]; ok {
				continue
			}
			seen[pid] = struct{}{}
			pids = append(pids, pid)
		}
	}
	return pids
}
