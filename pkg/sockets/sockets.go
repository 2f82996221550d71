// Package sockets enumerates the host's TCP and UDP sockets and shapes them
// into display rows: grouped by socket, labeled with owning processes, and
// sorted the way the listing prints them.
package sockets

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	gnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/marc47marc47/netstatw/pkg/types"
)

// Options select which sockets to list.
type Options struct {
	Proto  string // "tcp", "udp" or "all"
	Family string // "4", "6" or "all"
}

// connectionsByKind allows tests to stub the OS socket table.
var connectionsByKind = gnet.Connections

// processLabel resolves a "pid: executable" label, degrading from exe path
// to short name to Unknown, mirroring what a user expects from netstat -p.
var processLabel = func(pid int32) string {
	p, err := process.NewProcess(pid)
	if err != nil {
		return fmt.Sprintf("%d: Unknown", pid)
	}
	if exe, err := p.Exe(); err == nil && exe != "" {
		return fmt.Sprintf("%d: %s", pid, exe)
	}
	if name, err := p.Name(); err == nil && name != "" {
		return fmt.Sprintf("%d: %s", pid, name)
	}
	return fmt.Sprintf("%d: Unknown", pid)
}

// Kind maps the proto/family options onto a gopsutil connection kind.
func Kind(opts Options) (string, error) {
	proto := strings.ToLower(opts.Proto)
	switch proto {
	case "", "all":
		proto = "inet"
	case "tcp", "udp":
	default:
		return "", fmt.Errorf("unknown protocol %q (want tcp, udp or all)", opts.Proto)
	}

	switch opts.Family {
	case "", "all":
		return proto, nil
	case "4", "6":
		return proto + opts.Family, nil
	default:
		return "", fmt.Errorf("unknown address family %q (want 4, 6 or all)", opts.Family)
	}
}

// List enumerates sockets, groups entries that describe the same socket
// (the table reports one line per owning process) and returns rows sorted
// for display. Row PIDs keep the order the socket table reported them.
func List(opts Options) ([]types.SocketRow, error) {
	kind, err := Kind(opts)
	if err != nil {
		return nil, err
	}
	conns, err := connectionsByKind(kind)
	if err != nil {
		return nil, fmt.Errorf("listing %s sockets: %w", kind, err)
	}

	var (
		order []string
		byKey = make(map[string]*types.SocketRow)
	)
	for _, conn := range conns {
		proto := protoName(conn.Type)
		local := formatAddr(conn.Laddr)
		remote := formatAddr(conn.Raddr)
		state := conn.Status
		if proto == "UDP" {
			remote = "*:*"
			state = "-"
		}

		key := proto + "|" + local + "|" + remote + "|" + state
		row, ok := byKey[key]
		if !ok {
			row = &types.SocketRow{
				Proto:      proto,
				LocalAddr:  local,
				RemoteAddr: remote,
				State:      state,
			}
			byKey[key] = row
			order = append(order, key)
		}
		if conn.Pid > 0 && !containsPID(row.PIDs, conn.Pid) {
			row.PIDs = append(row.PIDs, conn.Pid)
		}
	}

	rows := make([]types.SocketRow, 0, len(order))
	for _, key := range order {
		row := byKey[key]
		row.Process = labelFor(row.PIDs)
		rows = append(rows, *row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rowLess(rows[i], rows[j])
	})
	return rows, nil
}

// labelFor joins the per-PID labels for one row.
func labelFor(pids []int32) string {
	if len(pids) == 0 {
		return "Unknown"
	}
	labels := make([]string, 0, len(pids))
	for _, pid := range pids {
		labels = append(labels, processLabel(pid))
	}
	return strings.Join(labels, ", ")
}

// stateRank orders states for display: unknown states first, then UDP,
// then TCP states ending with Established and Listen at the bottom of the
// listing where they are easiest to scan.
func stateRank(state string) int {
	switch state {
	case "-":
		return 1
	case "TIME_WAIT":
		return 2
	case "LAST_ACK":
		return 3
	case "CLOSING":
		return 4
	case "CLOSE_WAIT":
		return 5
	case "FIN_WAIT2":
		return 6
	case "FIN_WAIT1":
		return 7
	case "SYN_RECV":
		return 8
	case "SYN_SENT":
		return 9
	case "ESTABLISHED":
		return 10
	case "LISTEN":
		return 11
	default:
		return 0
	}
}

func rowLess(a, b types.SocketRow) bool {
	ra, rb := stateRank(a.State), stateRank(b.State)
	if ra != rb {
		return ra < rb
	}
	if a.Proto != b.Proto {
		return a.Proto < b.Proto
	}
	aIP, aPort := splitAddrPort(a.LocalAddr)
	bIP, bPort := splitAddrPort(b.LocalAddr)
	if aIP != bIP {
		return aIP < bIP
	}
	return aPort < bPort
}

// splitAddrPort separates "ip:port" at the last colon so IPv6 literals
// stay intact; a missing or malformed port compares as zero.
func splitAddrPort(addr string) (string, int) {
	idx := strings.LastIndex(addr, ":")
	if idx < 0 {
		return addr, 0
	}
	port, err := strconv.Atoi(addr[idx+1:])
	if err != nil {
		return addr, 0
	}
	return addr[:idx], port
}

func formatAddr(a gnet.Addr) string {
	if a.IP == "" {
		return "*:*"
	}
	return fmt.Sprintf("%s:%d", a.IP, a.Port)
}

func protoName(sockType uint32) string {
	switch sockType {
	case 1: // SOCK_STREAM
		return "TCP"
	case 2: // SOCK_DGRAM
		return "UDP"
	default:
		return fmt.Sprintf("SOCK%d", sockType)
	}
}

func containsPID(pids []int32, pid int32) bool {
	for _, p := range pids {
		if p == pid {
			return true
		}
	}
	return false
}
