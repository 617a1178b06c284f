// Package filterdef holds the decoded, in-memory representation of a
// filter definition (§3) — the structure the engine consumes read-only
// for the lifetime of one filter execution.
//
// internal/filterfile decodes into its own raw, close-to-the-file-format
// shape and converts that into these types; validate.go checks these
// types. Validate only reports problems: callers hand a definition to the
// engine whether or not it found any.
package filterdef

// CommandPattern describes which invocation(s) a filter definition applies
// to. It is metadata to the engine: match/priority resolution is an
// external collaborator's concern (§1 "filter discovery and priority
// resolution on disk" is out of scope).
type CommandPattern struct {
	// Patterns holds one or more literal command patterns, e.g. "git push".
	Patterns []string
	// Wildcard is true when the last element of the file's command list
	// was exactly "*" (removed from Patterns), matching any command with
	// that prefix.
	Wildcard bool
}

// MatchOutputEntry is one `{contains, output}` pair in the match_output
// list (§4.3).
type MatchOutputEntry struct {
	Contains string
	Output   string
}

// ReplaceEntry is one `{pattern, output}` pair in the replace list (§4.3).
type ReplaceEntry struct {
	Pattern string
	Output  string
}

// LuaScript holds the sandboxed script to evaluate (§4.6).
type LuaScript struct {
	Lang   string // "luau"
	Source string
}

// SectionSpec describes one named line collector (§4.4).
//
// Invariant: exactly one of Enter or Match is set; Exit and SplitOn are
// only meaningful alongside Enter.
type SectionSpec struct {
	Name      string
	CollectAs string
	Enter     string
	Exit      string
	Match     string
	SplitOn   string
}

// HasEnter reports whether this section uses the enter/exit state-machine
// form rather than the whole-stream `match` form.
func (s SectionSpec) HasEnter() bool { return s.Enter != "" }

// BranchParseSpec is the `parse.branch` sub-operation (§4.5).
type BranchParseSpec struct {
	Line    int // 1-based line index
	Pattern string
	Output  string
}

// GroupKeySpec is the `parse.group.key` table.
type GroupKeySpec struct {
	Pattern string
	Output  string
}

// GroupParseSpec is the `parse.group` sub-operation (§4.5).
type GroupParseSpec struct {
	Key    GroupKeySpec
	Labels map[string]string // raw key -> display label
}

// ParseSpec is the declarative table parser (§4.5), mutually exclusive with
// Sections on FilterDefinition.
type ParseSpec struct {
	Branch *BranchParseSpec
	Group  *GroupParseSpec
}

// OutputSpec controls how ParseSpec's results are rendered (§4.5).
type OutputSpec struct {
	Format            string
	GroupCountsFormat string // default "{label}: {count}"
	Empty             string // default ""
}

// AggregateSpec is one entry of a BranchSpec's aggregate list (§4.7).
type AggregateSpec struct {
	From    string // scope variable name of a Rec (a section result)
	Pattern string
	Sum     string // scope variable name to bind the summed Int to
	CountAs string // scope variable name to bind the count Int to
}

// ExtractSpec is a BranchSpec's extract sub-operation (§4.7).
type ExtractSpec struct {
	Pattern string
	Output  string
}

// BranchSpec is on_success / on_failure / fallback's body (§4.7).
type BranchSpec struct {
	Output    string
	Head      int
	Tail      int
	Skip      []string
	Extract   *ExtractSpec
	Aggregate []AggregateSpec
}

// FallbackSpec is the terminal stage run only when no branch produced
// output (§4.7, §4.8 step 8).
type FallbackSpec struct {
	Tail int
}

// FilterDefinition is the structure the engine consumes read-only for one
// filter execution (§3). It is not guaranteed to have passed Validate.
type FilterDefinition struct {
	Command CommandPattern
	Run     string // engine ignores; collaborator concern

	MatchOutput []MatchOutputEntry
	Replace     []ReplaceEntry
	Skip        []string
	Keep        []string
	Dedup       bool
	DedupWindow int

	LuaScript *LuaScript

	Sections []SectionSpec
	Parse    *ParseSpec
	Output   *OutputSpec

	OnSuccess *BranchSpec
	OnFailure *BranchSpec
	Fallback  *FallbackSpec
}
