package orchestrator

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// sampleMemory reads the process's current virtual memory usage in
// bytes: field 23 (vsize) of /proc/self/stat, treated as a page count
// and multiplied by the system page size. orchestrator.cpp's
// vmem_usage reads field 24 instead (see DESIGN.md).
// ok is false if the sample could not be taken (missing /proc, or a
// malformed line), which the caller treats as one failed attempt out
// of five before giving up (spec.md section 6).
func sampleMemory() (uint64, bool) {
	f, err := os.Open("/proc/self/stat")
	if err != nil {
		return 0, false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return 0, false
	}

	// field 2 (comm) may itself contain spaces inside parentheses;
	// locate it by the closing paren instead of a fixed index.
	line := scanner.Text()
	closeParen := strings.LastIndex(line, ")")
	if closeParen < 0 {
		return 0, false
	}
	rest := strings.Fields(line[closeParen+1:])
	// rest[0] is field 3 (state); field 23 is rest[23-3] = rest[20].
	const vsizeOffset = 23 - 3
	if len(rest) <= vsizeOffset {
		return 0, false
	}
	pages, err := strconv.ParseUint(rest[vsizeOffset], 10, 64)
	if err != nil {
		return 0, false
	}

	pageSize := uint64(syscall.Getpagesize())
	return pages * pageSize, true
}
