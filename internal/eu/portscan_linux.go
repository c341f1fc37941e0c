//go:build linux

package eu

import (
	"bufio"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"tum/internal/flog"
)

const tcpListenState = "0A"

// listeningPorts enumerates locally listening TCP ports by parsing
// /proc/net/tcp and /proc/net/tcp6. When both are empty (permission
// denied, unusual sandboxing), it falls back to parsing `ss -lnt`.
func listeningPorts() []int {
	ports := scanProcNetTCP("/proc/net/tcp")
	ports = append(ports, scanProcNetTCP("/proc/net/tcp6")...)
	if len(ports) == 0 {
		ports = scanSS()
	}
	return dedupe(ports)
}

func scanProcNetTCP(path string) []int {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var ports []int
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		if first {
			first = false // header line
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}
		if fields[3] != tcpListenState {
			continue
		}
		local := fields[1] // "address:port" both hex
		parts := strings.Split(local, ":")
		if len(parts) != 2 {
			continue
		}
		p, err := strconv.ParseInt(parts[1], 16, 32)
		if err != nil {
			continue
		}
		ports = append(ports, int(p))
	}
	return ports
}

func scanSS() []int {
	out, err := exec.Command("ss", "-lnt").Output()
	if err != nil {
		flog.Debugf("eu: ss -lnt fallback failed: %v", err)
		return nil
	}
	var ports []int
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	first := true
	for scanner.Scan() {
		if first {
			first = false
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}
		local := fields[3]
		idx := strings.LastIndex(local, ":")
		if idx < 0 {
			continue
		}
		p, err := strconv.Atoi(local[idx+1:])
		if err != nil {
			continue
		}
		ports = append(ports, p)
	}
	return ports
}

func dedupe(ports []int) []int {
	seen := make(map[int]struct{}, len(ports))
	out := make([]int, 0, len(ports))
	for _, p := range ports {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
