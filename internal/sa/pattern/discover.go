package pattern

import "fmt"

// Target names one of the seven entities discovery must locate
// (spec.md §4.6.1): two global object pointers and five function
// addresses needed to drive the host's private space APIs.
type Target string

const (
	TargetAddSpace       Target = "add_space"
	TargetRemoveSpace    Target = "remove_space"
	TargetMoveSpace      Target = "move_space"
	TargetDockSpaces     Target = "dock_spaces"
	TargetDppm           Target = "dppm"
	TargetSetFrontWindow Target = "set_front_window"
	TargetFixAnimation   Target = "fix_animation"
)

// AllTargets lists every entity discovery attempts to resolve.
var AllTargets = []Target{
	TargetAddSpace, TargetRemoveSpace, TargetMoveSpace,
	TargetDockSpaces, TargetDppm,
	TargetSetFrontWindow, TargetFixAnimation,
}

// Method names which of the three escalating techniques resolved a
// target.
type Method string

const (
	MethodSelectorLookup    Method = "selector_lookup"
	MethodGlobalViaSelector Method = "global_via_selector"
	MethodPatternFallback   Method = "pattern_fallback"
)

// Result is one target's discovery outcome.
type Result struct {
	Target     Target
	Found      bool
	Method     Method
	Address    uint64
	Suggestion string
}

// Report is the full diagnostic output of a Discover run.
type Report struct {
	Results map[Target]Result
}

// AllFound reports whether every target in AllTargets resolved.
func (r Report) AllFound() bool {
	for _, t := range AllTargets {
		if res, ok := r.Results[t]; !ok || !res.Found {
			return false
		}
	}
	return true
}

// Missing returns the targets that failed to resolve.
func (r Report) Missing() []Target {
	var out []Target
	for _, t := range AllTargets {
		if res, ok := r.Results[t]; !ok || !res.Found {
			out = append(out, t)
		}
	}
	return out
}

// selectorScanWindow bounds how far technique 2 scans into a function
// body looking for the ADRP+ADD/ADRP+LDR pair that forms a data
// address (spec.md §4.6.1: "first ~200 instructions").
const selectorScanWindow = 200

// prologueScanWindow bounds how far technique 1 walks backward from a
// load site to find the enclosing function's prologue.
const prologueScanWindow = 64

// Discoverer resolves Targets against a parsed Mach-O image using the
// selector string it expects for each target, plus a hand-tuned
// fallback pattern for the two targets technique 1/2 cannot reach.
type Discoverer struct {
	img              *Image
	selectorTargets  map[Target]string
	fallbackPatterns map[Target]Pattern
}

// NewDiscoverer builds a Discoverer over img using the default selector
// names and fallback patterns for the host's known private API surface.
func NewDiscoverer(img *Image) *Discoverer {
	return &Discoverer{
		img: img,
		selectorTargets: map[Target]string{
			TargetAddSpace:    "addSpace:",
			TargetRemoveSpace: "removeSpace:",
			TargetMoveSpace:   "moveSpace:toDisplay:",
			TargetDockSpaces:  "spaces",
			TargetDppm:        "displayProviderPowerManager",
		},
		fallbackPatterns: map[Target]Pattern{
			TargetSetFrontWindow: MustCompile("FF ?? ?? A9 FD 7B ?? A9 ?? ?? ?? ?? F9"),
			TargetFixAnimation:   MustCompile("FF 43 ?? D1 FD 7B ?? A9 ?? ?? ?? 91"),
		},
	}
}

// Discover runs all three techniques over every target and returns a
// full diagnostic report.
func (d *Discoverer) Discover() Report {
	report := Report{Results: make(map[Target]Result, len(AllTargets))}
	for _, t := range []Target{TargetAddSpace, TargetRemoveSpace, TargetMoveSpace} {
		report.Results[t] = d.resolveViaSelector(t)
	}
	for _, t := range []Target{TargetDockSpaces, TargetDppm} {
		report.Results[t] = d.resolveGlobalViaSelector(t)
	}
	for _, t := range []Target{TargetSetFrontWindow, TargetFixAnimation} {
		report.Results[t] = d.resolveViaPattern(t)
	}
	return report
}

// resolveViaSelector implements technique 1 (spec.md §4.6.1 item 1):
// selector string -> selref -> ADRP+LDR pair loading the selref ->
// walk backward to the enclosing prologue.
func (d *Discoverer) resolveViaSelector(t Target) Result {
	sel, ok := d.selectorTargets[t]
	if !ok {
		return notFound(t, "no selector name registered for this target")
	}
	loadOff, found := d.findSelrefLoadSite(sel)
	if !found {
		return notFound(t, fmt.Sprintf("selector %q not found, or no load site in __text", sel))
	}
	text, base, err := d.img.Text()
	if err != nil {
		return notFound(t, err.Error())
	}
	prologueOff, ok := WalkBackToPrologue(text, loadOff, prologueScanWindow)
	if !ok {
		return notFound(t, "no recognized prologue shape found walking backward from the load site")
	}
	return Result{Target: t, Found: true, Method: MethodSelectorLookup, Address: base + uint64(prologueOff)}
}

// resolveGlobalViaSelector implements technique 2 (spec.md §4.6.1 item
// 2): locate the function by its selector, then scan its first ~200
// instructions for an ADRP+ADD or ADRP+LDR sequence whose resulting
// address lands in a data segment.
func (d *Discoverer) resolveGlobalViaSelector(t Target) Result {
	sel, ok := d.selectorTargets[t]
	if !ok {
		return notFound(t, "no selector name registered for this target")
	}
	loadOff, found := d.findSelrefLoadSite(sel)
	if !found {
		return notFound(t, fmt.Sprintf("selector %q not found, or no load site in __text", sel))
	}
	text, base, err := d.img.Text()
	if err != nil {
		return notFound(t, err.Error())
	}
	fnOff, ok := WalkBackToPrologue(text, loadOff, prologueScanWindow)
	if !ok {
		return notFound(t, "could not locate the enclosing function's prologue")
	}
	for i := 0; i < selectorScanWindow; i++ {
		off := fnOff + i*instrSize
		adrp, ok := instructionAt(text, off)
		if !ok {
			break
		}
		if !IsADRP(adrp) {
			continue
		}
		page := ADRPTarget(adrp, base+uint64(off))
		next, ok := instructionAt(text, off+instrSize)
		if !ok {
			continue
		}
		var addr uint64
		switch {
		case IsLDRImm64(next):
			addr = page + LDRImm64Offset(next)
		case IsADDImm(next):
			addr = page + ADDImmValue(next)
		default:
			continue
		}
		if d.img.InDataSegment(addr) {
			return Result{Target: t, Found: true, Method: MethodGlobalViaSelector, Address: addr}
		}
	}
	return notFound(t, "no ADRP+ADD/ADRP+LDR pair in range resolved to a data-segment address")
}

// resolveViaPattern implements technique 3 (spec.md §4.6.1 item 3): a
// hand-tuned wildcarded instruction pattern scanned across __text.
func (d *Discoverer) resolveViaPattern(t Target) Result {
	pat, ok := d.fallbackPatterns[t]
	if !ok {
		return notFound(t, "no fallback pattern registered for this target")
	}
	text, base, err := d.img.Text()
	if err != nil {
		return notFound(t, err.Error())
	}
	off, found := Search(text, pat)
	if !found {
		return notFound(t, "fallback byte pattern not found in __text; the host binary may have changed")
	}
	return Result{Target: t, Found: true, Method: MethodPatternFallback, Address: base + uint64(off)}
}

// findSelrefLoadSite locates the first ADRP+LDR pair in __text that
// loads the selref entry for sel, returning the byte offset of the LDR
// half of the pair (the instruction that actually dereferences it).
func (d *Discoverer) findSelrefLoadSite(sel string) (int, bool) {
	selAddr, ok := d.img.FindSelectorString(sel)
	if !ok {
		return 0, false
	}
	selrefAddr, ok := d.img.FindSelref(selAddr)
	if !ok {
		return 0, false
	}
	text, base, err := d.img.Text()
	if err != nil {
		return 0, false
	}
	for off := 0; off+2*instrSize <= len(text); off += instrSize {
		adrp, ok := instructionAt(text, off)
		if !ok || !IsADRP(adrp) {
			continue
		}
		page := ADRPTarget(adrp, base+uint64(off))
		ldr, ok := instructionAt(text, off+instrSize)
		if !ok || !IsLDRImm64(ldr) {
			continue
		}
		if page+LDRImm64Offset(ldr) == selrefAddr {
			return off + instrSize, true
		}
	}
	return 0, false
}

func notFound(t Target, suggestion string) Result {
	return Result{Target: t, Found: false, Suggestion: suggestion}
}
