package engine

import (
	"regexp"
	"strings"

	"github.com/tokf/tokf/internal/filterdef"
)

// CollectSections runs every section spec over lines independently (§4.4).
// Sections are broadcast per line: a single pass hands each line to every
// section's own state machine in turn, so sections never interact with one
// another (§5 — single-threaded, not goroutine-concurrent).
//
// The result binds spec.CollectAs (or spec.Name if CollectAs is empty) to a
// Rec in scope for every spec, so later stages can reference `{name}` or
// `{name.field}`.
func CollectSections(specs []filterdef.SectionSpec, lines []string, scope *Scope, diag *Diagnostics) {
	states := make([]*sectionState, len(specs))
	for i, spec := range specs {
		states[i] = newSectionState(spec, diag)
	}
	for _, line := range lines {
		for _, st := range states {
			st.feed(line)
		}
	}
	for i, spec := range specs {
		name := spec.CollectAs
		if name == "" {
			name = spec.Name
		}
		scope.Set(name, Rec(states[i].record()))
	}
}

// sectionState is the running state for one section spec across the whole
// line stream.
type sectionState struct {
	spec      filterdef.SectionSpec
	enterRe   *regexpOrNil
	exitRe    *regexpOrNil
	matchRe   *regexpOrNil
	splitRe   *regexpOrNil
	inside    bool
	current   []string   // lines of the block currently being collected
	blocks    [][]string // completed blocks, in order
	allLines  []string   // every matched/collected line, flattened
}

type regexpOrNil struct {
	present bool
	re      *regexp.Regexp
}

func newSectionState(spec filterdef.SectionSpec, diag *Diagnostics) *sectionState {
	st := &sectionState{spec: spec}
	st.enterRe = compileOptional(spec.Enter, "section.enter", diag)
	st.exitRe = compileOptional(spec.Exit, "section.exit", diag)
	st.matchRe = compileOptional(spec.Match, "section.match", diag)
	st.splitRe = compileOptional(spec.SplitOn, "section.split_on", diag)
	return st
}

func compileOptional(pattern, stage string, diag *Diagnostics) *regexpOrNil {
	if pattern == "" {
		return &regexpOrNil{}
	}
	re, ok := defaultCache.Compile(pattern)
	if !ok {
		diag.add(DiagRegexCompileError, stage, "invalid pattern: "+pattern)
		return &regexpOrNil{}
	}
	return &regexpOrNil{present: true, re: re}
}

// feed processes one line of input against this section's state machine.
func (st *sectionState) feed(line string) {
	if st.spec.HasEnter() {
		st.feedEnterExit(line)
		return
	}
	st.feedMatch(line)
}

// feedMatch implements the whole-stream `match` form: every line matching
// Match is collected as its own one-line block.
func (st *sectionState) feedMatch(line string) {
	if !st.matchRe.present {
		return
	}
	if !st.matchRe.re.MatchString(line) {
		return
	}
	st.emitLine(line)
	st.blocks = append(st.blocks, []string{line})
}

// feedEnterExit implements the enter/exit state-machine form. While inside
// a block, SplitOn (if set) starts a new block without requiring another
// Enter match; Exit closes the current block and returns to the outside
// state.
func (st *sectionState) feedEnterExit(line string) {
	if !st.inside {
		if st.enterRe.present && st.enterRe.re.MatchString(line) {
			st.inside = true
			st.current = nil
			st.appendCurrent(line)
		}
		return
	}

	if st.exitRe.present && st.exitRe.re.MatchString(line) {
		st.closeCurrent()
		st.inside = false
		return
	}
	if st.splitRe.present && st.splitRe.re.MatchString(line) {
		st.closeCurrent()
		st.current = nil
		st.appendCurrent(line)
		return
	}
	st.appendCurrent(line)
}

func (st *sectionState) appendCurrent(line string) {
	st.current = append(st.current, line)
	st.emitLine(line)
}

func (st *sectionState) closeCurrent() {
	if len(st.current) == 0 {
		return
	}
	st.blocks = append(st.blocks, st.current)
	st.current = nil
}

func (st *sectionState) emitLine(line string) {
	st.allLines = append(st.allLines, line)
}

// record builds the Rec bound for this section: text (joined lines, the
// value {name} resolves to), lines (Coll<Str>), blocks (Coll<Coll<Str>>),
// count (§4.4: length of blocks when split_on is set, else length of
// lines).
func (st *sectionState) record() *Record {
	st.closeCurrent() // an unterminated enter/exit block still counts (§4.4)

	r := NewRecord()
	r.Set("text", Str(strings.Join(st.allLines, "\n")))

	lineVals := make([]Value, len(st.allLines))
	for i, l := range st.allLines {
		lineVals[i] = Str(l)
	}
	r.Set("lines", Coll(lineVals))

	blockVals := make([]Value, len(st.blocks))
	for i, b := range st.blocks {
		lv := make([]Value, len(b))
		for j, l := range b {
			lv[j] = Str(l)
		}
		blockVals[i] = Coll(lv)
	}
	r.Set("blocks", Coll(blockVals))

	if st.spec.SplitOn != "" {
		r.Set("count", Int(int64(len(st.blocks))))
	} else {
		r.Set("count", Int(int64(len(st.allLines))))
	}
	return r
}
