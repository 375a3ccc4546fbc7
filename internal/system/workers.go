package system

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// sheetWorkingSet is a rough upper bound of memory held by one sheet pipeline:
// decoded RGBA, rotated copy, grayscale copy and the re-encoded debug image of a
// 300 dpi A4 scan.
const sheetWorkingSet = 160 << 20

// DefaultWorkers sizes the batch pool from logical CPUs, capped by available memory.
func DefaultWorkers() int {
	cpus, err := cpu.Counts(true)
	if err != nil || cpus < 1 {
		cpus = runtime.NumCPU()
	}

	var available uint64
	if vm, err := mem.VirtualMemory(); err == nil {
		available = vm.Available
	}

	return workerLimit(cpus, available, sheetWorkingSet)
}

// workerLimit never returns less than 1. available == 0 means unknown.
func workerLimit(cpus int, available, perWorker uint64) int {
	n := cpus
	if available > 0 && perWorker > 0 {
		if byMem := available / perWorker; byMem < uint64(n) {
			n = int(byMem)
		}
	}
	if n < 1 {
		n = 1
	}
	return n
}
