// Package filterfile decodes the on-disk TOML filter-definition format
// (§6) into internal/filterdef's validated in-memory structure.
//
// Decode into a raw, close-to-the-file-format struct, then convert
// field-by-field into the public type. TOML's native array-of-tables
// syntax already gives match_output/replace/sections their ordered-list
// shape, so no polymorphic-field dispatch is needed here.
package filterfile

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/tokf/tokf/internal/filterdef"
)

type rawFile struct {
	Command []string `toml:"command"`
	Run     string   `toml:"run"`

	MatchOutput []rawMatchOutputEntry `toml:"match_output"`
	Replace     []rawReplaceEntry     `toml:"replace"`
	Skip        []string              `toml:"skip"`
	Keep        []string              `toml:"keep"`
	Dedup       bool                  `toml:"dedup"`
	DedupWindow int                   `toml:"dedup_window"`

	// LuaScript is decoded as a deferred primitive so this package does
	// not need a field for every possible engine-specific script option up
	// front (the heka pipeline-config pattern: a plugin-shaped table
	// decoded lazily once its concrete shape is known).
	LuaScript toml.Primitive `toml:"lua_script"`
	hasScript bool

	Sections []rawSection `toml:"sections"`
	Parse    *rawParse    `toml:"parse"`
	Output   *rawOutput   `toml:"output"`

	OnSuccess *rawBranch   `toml:"on_success"`
	OnFailure *rawBranch   `toml:"on_failure"`
	Fallback  *rawFallback `toml:"fallback"`
}

type rawMatchOutputEntry struct {
	Contains string `toml:"contains"`
	Output   string `toml:"output"`
}

type rawReplaceEntry struct {
	Pattern string `toml:"pattern"`
	Output  string `toml:"output"`
}

type rawLuaScript struct {
	Lang   string `toml:"lang"`
	Source string `toml:"source"`
}

type rawSection struct {
	Name      string `toml:"name"`
	CollectAs string `toml:"collect_as"`
	Enter     string `toml:"enter"`
	Exit      string `toml:"exit"`
	Match     string `toml:"match"`
	SplitOn   string `toml:"split_on"`
}

type rawParse struct {
	Branch *rawParseBranch `toml:"branch"`
	Group  *rawParseGroup  `toml:"group"`
}

type rawParseBranch struct {
	Line    int    `toml:"line"`
	Pattern string `toml:"pattern"`
	Output  string `toml:"output"`
}

type rawParseGroup struct {
	Key    rawGroupKey       `toml:"key"`
	Labels map[string]string `toml:"labels"`
}

type rawGroupKey struct {
	Pattern string `toml:"pattern"`
	Output  string `toml:"output"`
}

type rawOutput struct {
	Format            string `toml:"format"`
	GroupCountsFormat string `toml:"group_counts_format"`
	Empty             string `toml:"empty"`
}

type rawBranch struct {
	Output    string         `toml:"output"`
	Head      int            `toml:"head"`
	Tail      int            `toml:"tail"`
	Skip      []string       `toml:"skip"`
	Extract   *rawExtract    `toml:"extract"`
	Aggregate []rawAggregate `toml:"aggregate"`
}

type rawExtract struct {
	Pattern string `toml:"pattern"`
	Output  string `toml:"output"`
}

type rawAggregate struct {
	From    string `toml:"from"`
	Pattern string `toml:"pattern"`
	Sum     string `toml:"sum"`
	CountAs string `toml:"count_as"`
}

type rawFallback struct {
	Tail int `toml:"tail"`
}

// DecodeFile reads path as a filter definition TOML document. warnings
// reports each undecoded key, at any nesting depth, as a dotted path (§6
// "unknown fields are ignored with a warning").
func DecodeFile(path string) (*filterdef.FilterDefinition, []string, error) {
	var raw rawFile
	md, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, nil, fmt.Errorf("filterfile: decode %s: %w", path, err)
	}
	raw.hasScript = isPrimitiveSet(md, "lua_script")

	def, err := convert(&raw, md)
	if err != nil {
		return nil, nil, fmt.Errorf("filterfile: %s: %w", path, err)
	}
	return def, undecodedWarnings(md), nil
}

// isPrimitiveSet reports whether key was actually present in the document
// (as opposed to raw.LuaScript holding its zero value because the table
// was absent).
func isPrimitiveSet(md toml.MetaData, key string) bool {
	for _, k := range md.Keys() {
		if len(k) == 1 && k.String() == key {
			return true
		}
	}
	return false
}

func undecodedWarnings(md toml.MetaData) []string {
	keys := md.Undecoded()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}

func convert(raw *rawFile, md toml.MetaData) (*filterdef.FilterDefinition, error) {
	def := &filterdef.FilterDefinition{
		Command:     convertCommand(raw.Command),
		Run:         raw.Run,
		Skip:        raw.Skip,
		Keep:        raw.Keep,
		Dedup:       raw.Dedup,
		DedupWindow: raw.DedupWindow,
	}

	for _, e := range raw.MatchOutput {
		def.MatchOutput = append(def.MatchOutput, filterdef.MatchOutputEntry{
			Contains: e.Contains,
			Output:   e.Output,
		})
	}
	for _, e := range raw.Replace {
		def.Replace = append(def.Replace, filterdef.ReplaceEntry{
			Pattern: e.Pattern,
			Output:  e.Output,
		})
	}

	if raw.hasScript {
		var script rawLuaScript
		if err := md.PrimitiveDecode(raw.LuaScript, &script); err != nil {
			return nil, fmt.Errorf("lua_script: %w", err)
		}
		if script.Lang == "" {
			script.Lang = "luau"
		}
		def.LuaScript = &filterdef.LuaScript{Lang: script.Lang, Source: script.Source}
	}

	for _, s := range raw.Sections {
		def.Sections = append(def.Sections, filterdef.SectionSpec{
			Name:      s.Name,
			CollectAs: s.CollectAs,
			Enter:     s.Enter,
			Exit:      s.Exit,
			Match:     s.Match,
			SplitOn:   s.SplitOn,
		})
	}

	if raw.Parse != nil {
		def.Parse = convertParse(raw.Parse)
	}
	if raw.Output != nil {
		def.Output = &filterdef.OutputSpec{
			Format:            raw.Output.Format,
			GroupCountsFormat: raw.Output.GroupCountsFormat,
			Empty:             raw.Output.Empty,
		}
	}

	def.OnSuccess = convertBranch(raw.OnSuccess)
	def.OnFailure = convertBranch(raw.OnFailure)
	if raw.Fallback != nil {
		def.Fallback = &filterdef.FallbackSpec{Tail: raw.Fallback.Tail}
	}

	return def, nil
}

// convertCommand turns a last element that is exactly "*" into the
// CommandPattern.Wildcard flag and drops it from Patterns (§3: "a wildcard
// pattern (* at end only, single occurrence)"). A "*" inside an element
// (e.g. "kubectl *") is kept as literal text.
func convertCommand(patterns []string) filterdef.CommandPattern {
	cp := filterdef.CommandPattern{Patterns: patterns}
	if n := len(patterns); n > 0 && patterns[n-1] == "*" {
		cp.Wildcard = true
		cp.Patterns = patterns[:n-1]
	}
	return cp
}

func convertParse(raw *rawParse) *filterdef.ParseSpec {
	p := &filterdef.ParseSpec{}
	if raw.Branch != nil {
		p.Branch = &filterdef.BranchParseSpec{
			Line:    raw.Branch.Line,
			Pattern: raw.Branch.Pattern,
			Output:  raw.Branch.Output,
		}
	}
	if raw.Group != nil {
		p.Group = &filterdef.GroupParseSpec{
			Key: filterdef.GroupKeySpec{
				Pattern: raw.Group.Key.Pattern,
				Output:  raw.Group.Key.Output,
			},
			Labels: raw.Group.Labels,
		}
	}
	return p
}

func convertBranch(raw *rawBranch) *filterdef.BranchSpec {
	if raw == nil {
		return nil
	}
	b := &filterdef.BranchSpec{
		Output: raw.Output,
		Head:   raw.Head,
		Tail:   raw.Tail,
		Skip:   raw.Skip,
	}
	if raw.Extract != nil {
		b.Extract = &filterdef.ExtractSpec{Pattern: raw.Extract.Pattern, Output: raw.Extract.Output}
	}
	for _, a := range raw.Aggregate {
		b.Aggregate = append(b.Aggregate, filterdef.AggregateSpec{
			From:    a.From,
			Pattern: a.Pattern,
			Sum:     a.Sum,
			CountAs: a.CountAs,
		})
	}
	return b
}
