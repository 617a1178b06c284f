package engine

import "testing"

func TestRender_Basic(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"literal", "hello world", "hello world"},
		{"simple var", "exit={exit_code}", "exit=0"},
		{"unknown var empty", "{nope}", ""},
		{"unmatched brace literal", "a{b", "a{b"},
		{"pipe lines+join", `{output|lines|join:","}`, "a,b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope := NewScope("a\nb", 0, nil)
			got := Render(tt.host, scope)
			if got != tt.want {
				t.Fatalf("Render(%q) = %q, want %q", tt.host, got, tt.want)
			}
		})
	}
}

func TestRender_Totality(t *testing.T) {
	// Template totality (§8): rendering never raises; unknown references
	// yield empty; unknown pipes yield their input.
	scope := NewScope("payload", 0, nil)
	got := Render("{output|nonexistent_pipe}", scope)
	if got != "payload" {
		t.Fatalf("unknown pipe should be identity, got %q", got)
	}
}

func TestRender_EachBindsValueAndIndex(t *testing.T) {
	scope := NewScope("", 0, nil)
	scope.Set("items", Coll([]Value{Str("x"), Str("y")}))
	got := Render(`{items|each:"{index}:{value}"|join:","}`, scope)
	want := "1:x,2:y"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRender_TruncateAppendsEllipsis(t *testing.T) {
	scope := NewScope("abcdef", 0, nil)
	got := Render("{output|truncate:3}", scope)
	if got != "abc…" {
		t.Fatalf("got %q", got)
	}
}

func TestRender_KeepFiltersByRegex(t *testing.T) {
	scope := NewScope("", 0, nil)
	scope.Set("lines", Coll([]Value{Str("> foo"), Str("bar"), Str("E oops")}))
	got := Render(`{lines|keep:"^[>E] "|join:"|"}`, scope)
	if got != "> foo|E oops" {
		t.Fatalf("got %q", got)
	}
}

func TestRender_AllowsSpaceAroundPipesAndArgs(t *testing.T) {
	// The pytest library filter and §8 scenario 6 both write pipes with
	// surrounding whitespace ("{x | f: \"a\"}"); the grammar must accept
	// that form exactly like the unspaced one.
	scope := NewScope("", 0, nil)
	scope.Set("lines", Coll([]Value{Str("> foo"), Str("bar"), Str("E oops")}))
	got := Render(`{lines | keep: "^[>E] " | join: "|"}`, scope)
	if got != "> foo|E oops" {
		t.Fatalf("got %q", got)
	}
}

func TestRender_PytestEachKeepScenario(t *testing.T) {
	// §8 scenario 6: two failure blocks, each containing mixed traceback
	// plus lines starting with ">" or "E"; the each+keep+join composition
	// should retain only those lines, per block, separated by the outer
	// join's literal text.
	scope := NewScope("", 0, nil)
	scope.Set("failure_blocks", Coll([]Value{
		Str("def test_a():\n>   assert 1 == 2\nE   AssertionError"),
		Str("def test_b():\n>   assert False\nE   AssertionError"),
	}))
	got := Render(`{failure_blocks | each: "{value | lines | keep: \"^[>E] \" | join: \"\n\"}" | join: "---"}`, scope)
	want := ">   assert 1 == 2\nE   AssertionError--->   assert False\nE   AssertionError"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
