package filterdef

import "testing"

func TestValidate_SectionsAndParseMutuallyExclusive(t *testing.T) {
	def := &FilterDefinition{
		Sections: []SectionSpec{{Name: "a", Match: "x"}},
		Parse:    &ParseSpec{Branch: &BranchParseSpec{Line: 1, Pattern: "x", Output: "{1}"}},
	}
	errs := Validate(def)
	if !containsField(errs, "sections/parse") {
		t.Fatalf("expected a sections/parse mutual-exclusivity error, got %v", errs)
	}
}

func TestValidate_SectionExactlyOneOfEnterMatch(t *testing.T) {
	tests := []struct {
		name    string
		spec    SectionSpec
		wantErr bool
	}{
		{"neither", SectionSpec{Name: "a"}, true},
		{"both", SectionSpec{Name: "a", Enter: "x", Match: "y"}, true},
		{"enter only", SectionSpec{Name: "a", Enter: "x"}, false},
		{"match only", SectionSpec{Name: "a", Match: "y"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(&FilterDefinition{Sections: []SectionSpec{tt.spec}})
			got := containsField(errs, "sections[0]")
			if got != tt.wantErr {
				t.Fatalf("got error=%v, want %v (%v)", got, tt.wantErr, errs)
			}
		})
	}
}

func TestValidate_BadRegex(t *testing.T) {
	def := &FilterDefinition{Skip: []string{"("}}
	errs := Validate(def)
	if !containsField(errs, "skip[0]") {
		t.Fatalf("expected invalid regex error, got %v", errs)
	}
}

func TestValidate_BranchLineMustBePositive(t *testing.T) {
	def := &FilterDefinition{Parse: &ParseSpec{Branch: &BranchParseSpec{Line: 0, Pattern: "x", Output: "{1}"}}}
	errs := Validate(def)
	if !containsField(errs, "parse.branch.line") {
		t.Fatalf("expected a parse.branch.line error, got %v", errs)
	}
}

func TestValidate_DedupWindowNonNegative(t *testing.T) {
	def := &FilterDefinition{DedupWindow: -1}
	errs := Validate(def)
	if !containsField(errs, "dedup_window") {
		t.Fatalf("expected a dedup_window error, got %v", errs)
	}
}

func TestValidate_CleanDefinitionHasNoErrors(t *testing.T) {
	def := &FilterDefinition{
		Sections: []SectionSpec{{Name: "a", Match: "x"}},
		Skip:     []string{"^noise"},
	}
	if errs := Validate(def); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func containsField(errs []ValidationError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}
