package filterdef

import (
	"fmt"
	"regexp"
)

// Validate checks definition for the class of errors §7 calls "definition
// errors": bad regex syntax, sections/parse both present, a section with
// neither (or both) of enter/match set, a branch's line < 1, and a
// negative dedup_window. It never mutates definition — the caller decides
// whether to disable an offending stage/entry (§7 kind 1: "offending
// stage/entry is disabled, diagnostic recorded").
func Validate(def *FilterDefinition) []ValidationError {
	var errs []ValidationError

	for i, e := range def.MatchOutput {
		// contains is a literal substring (§4.3), not a regex: nothing to
		// validate beyond it being present.
		if e.Contains == "" {
			errs = append(errs, errf(fmt.Sprintf("match_output[%d].contains", i), "must not be empty"))
		}
	}
	for i, e := range def.Replace {
		checkRegex(&errs, fmt.Sprintf("replace[%d].pattern", i), e.Pattern)
	}
	for i, p := range def.Skip {
		checkRegex(&errs, fmt.Sprintf("skip[%d]", i), p)
	}
	for i, p := range def.Keep {
		checkRegex(&errs, fmt.Sprintf("keep[%d]", i), p)
	}
	if def.DedupWindow < 0 {
		errs = append(errs, errf("dedup_window", "must be >= 0, got %d", def.DedupWindow))
	}

	if len(def.Sections) > 0 && def.Parse != nil {
		errs = append(errs, errf("sections/parse", "mutually exclusive: both are present"))
	}
	for i, s := range def.Sections {
		validateSection(&errs, i, s)
	}

	if def.Parse != nil {
		validateParse(&errs, def.Parse)
	}

	validateBranch(&errs, "on_success", def.OnSuccess)
	validateBranch(&errs, "on_failure", def.OnFailure)

	return errs
}

func validateSection(errs *[]ValidationError, i int, s SectionSpec) {
	field := fmt.Sprintf("sections[%d]", i)
	hasEnter := s.Enter != ""
	hasMatch := s.Match != ""
	switch {
	case hasEnter && hasMatch:
		*errs = append(*errs, errf(field, "exactly one of enter/match must be set, both are present"))
	case !hasEnter && !hasMatch:
		*errs = append(*errs, errf(field, "exactly one of enter/match must be set, neither is present"))
	}
	checkRegexOptional(errs, field+".enter", s.Enter, true)
	checkRegexOptional(errs, field+".exit", s.Exit, true)
	checkRegexOptional(errs, field+".match", s.Match, true)
	checkRegexOptional(errs, field+".split_on", s.SplitOn, true)
}

func validateParse(errs *[]ValidationError, p *ParseSpec) {
	if p.Branch != nil {
		if p.Branch.Line < 1 {
			*errs = append(*errs, errf("parse.branch.line", "must be >= 1, got %d", p.Branch.Line))
		}
		checkRegex(errs, "parse.branch.pattern", p.Branch.Pattern)
	}
	if p.Group != nil {
		checkRegex(errs, "parse.group.key.pattern", p.Group.Key.Pattern)
	}
}

func validateBranch(errs *[]ValidationError, field string, b *BranchSpec) {
	if b == nil {
		return
	}
	for i, p := range b.Skip {
		checkRegex(errs, fmt.Sprintf("%s.skip[%d]", field, i), p)
	}
	if b.Extract != nil {
		checkRegex(errs, field+".extract.pattern", b.Extract.Pattern)
	}
	for i, a := range b.Aggregate {
		checkRegex(errs, fmt.Sprintf("%s.aggregate[%d].pattern", field, i), a.Pattern)
	}
}

func checkRegex(errs *[]ValidationError, field, pattern string) {
	if _, err := regexp.Compile(pattern); err != nil {
		*errs = append(*errs, errf(field, "invalid regex: %v", err))
	}
}

// checkRegexOptional is checkRegex but skips empty patterns when the field
// is allowed to be absent (optional=true).
func checkRegexOptional(errs *[]ValidationError, field, pattern string, optional bool) {
	if optional && pattern == "" {
		return
	}
	checkRegex(errs, field, pattern)
}
