//go:build linux

package eu

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestScanProcNetTCPParsesListenRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tcp")
	content := "  sl  local_address rem_address   st\n" +
		"   0: 0100007F:1F90 00000000:0000 0A 00000000:00000000 00:00000000 00000000     0        0 12345 1 0000000000000000 100 0 0 10 0\n" +
		"   1: 0100007F:0050 00000000:0000 06 00000000:00000000 00:00000000 00000000     0        0 12346 1 0000000000000000 100 0 0 10 0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	ports := scanProcNetTCP(path)
	if len(ports) != 1 || ports[0] != 8080 {
		t.Errorf("scanProcNetTCP = %v, want [8080] (only LISTEN rows)", ports)
	}
}

func TestScanProcNetTCPMissingFile(t *testing.T) {
	ports := scanProcNetTCP("/nonexistent/path/tcp")
	if ports != nil {
		t.Errorf("scanProcNetTCP(missing) = %v, want nil", ports)
	}
}

func TestDedupe(t *testing.T) {
	got := dedupe([]int{80, 443, 80, 8080, 443})
	sort.Ints(got)
	want := []int{80, 443, 8080}
	if len(got) != len(want) {
		t.Fatalf("dedupe = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("dedupe[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
