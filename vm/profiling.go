package vm

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/tqscript/tqvm/opcodes"
)

// profiler counts how many times each opcode executes, and how many
// instructions each distinct frame activation ran, keyed by Frame.ID.
// Modeled on the teacher's vm/profiling.go HotSpot tracking, scaled down to
// this engine's opcode set and with no timing — just counts, since the
// dispatch loop here has no per-instruction bytecode offsets to report
// against.
type profiler struct {
	mu     sync.Mutex
	counts map[opcodes.Op]uint64
	total  uint64
	frames map[uuid.UUID]uint64
}

func newProfiler() *profiler {
	return &profiler{
		counts: make(map[opcodes.Op]uint64),
		frames: make(map[uuid.UUID]uint64),
	}
}

func (p *profiler) record(frameID uuid.UUID, op opcodes.Op) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counts[op]++
	p.total++
	p.frames[frameID]++
}

// HotSpot is one row of a performance report: an opcode and how often it
// executed.
type HotSpot struct {
	Op    opcodes.Op
	Count uint64
}

// HotSpots returns every executed opcode's count, most-executed first.
func (v *VM) HotSpots() []HotSpot {
	if v.prof == nil {
		return nil
	}
	v.prof.mu.Lock()
	defer v.prof.mu.Unlock()
	out := make([]HotSpot, 0, len(v.prof.counts))
	for op, n := range v.prof.counts {
		out = append(out, HotSpot{Op: op, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// FrameActivation reports how many instructions one frame activation ran,
// keyed by the Frame.ID the dispatch loop tagged it with — the handle a host
// running several concurrent Interpret calls (shared mode) can log to
// correlate a report's counts back to a specific activation across
// goroutines.
type FrameActivation struct {
	ID           uuid.UUID
	Instructions uint64
}

// FrameActivations returns one entry per distinct frame ID the profiler has
// seen, most-instructions-run first.
func (v *VM) FrameActivations() []FrameActivation {
	if v.prof == nil {
		return nil
	}
	v.prof.mu.Lock()
	defer v.prof.mu.Unlock()
	out := make([]FrameActivation, 0, len(v.prof.frames))
	for id, n := range v.prof.frames {
		out = append(out, FrameActivation{ID: id, Instructions: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Instructions > out[j].Instructions })
	return out
}

// GetPerformanceReport renders HotSpots and FrameActivations as a
// human-readable table. Returns an empty string if profiling was never
// enabled (WithProfiling).
func (v *VM) GetPerformanceReport() string {
	spots := v.HotSpots()
	if spots == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "executed %s instructions total across %d frame(s)\n",
		humanize.Comma(int64(v.prof.total)), len(v.prof.frames))
	for _, hs := range spots {
		fmt.Fprintf(&b, "  %-20s %s\n", hs.Op, humanize.Comma(int64(hs.Count)))
	}
	for _, fa := range v.FrameActivations() {
		fmt.Fprintf(&b, "  frame %s: %s instructions\n", fa.ID, humanize.Comma(int64(fa.Instructions)))
	}
	return b.String()
}
