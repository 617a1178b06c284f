package filterfile

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFilter(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp filter: %v", err)
	}
	return path
}

func TestDecodeFile_BasicFields(t *testing.T) {
	path := writeTempFilter(t, `
command = ["git", "push"]
skip = ["^Enumerating"]
dedup_window = 2

[[match_output]]
contains = "Everything up-to-date"
output = "ok (up-to-date)"

[on_success]
output = "{output}"
head = 3
`)
	def, warnings, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(def.Command.Patterns) != 2 || def.Command.Patterns[0] != "git" {
		t.Fatalf("unexpected command: %+v", def.Command)
	}
	if def.DedupWindow != 2 {
		t.Fatalf("unexpected dedup_window: %d", def.DedupWindow)
	}
	if len(def.MatchOutput) != 1 || def.MatchOutput[0].Contains != "Everything up-to-date" {
		t.Fatalf("unexpected match_output: %+v", def.MatchOutput)
	}
	if def.OnSuccess == nil || def.OnSuccess.Head != 3 {
		t.Fatalf("unexpected on_success: %+v", def.OnSuccess)
	}
}

func TestDecodeFile_WildcardCommand(t *testing.T) {
	path := writeTempFilter(t, `command = ["kubectl", "*"]`)
	def, _, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !def.Command.Wildcard {
		t.Fatalf("expected wildcard command")
	}
	if len(def.Command.Patterns) != 1 || def.Command.Patterns[0] != "kubectl" {
		t.Fatalf("unexpected patterns after wildcard strip: %+v", def.Command.Patterns)
	}
}

func TestDecodeFile_UnknownFieldWarns(t *testing.T) {
	path := writeTempFilter(t, `
command = ["echo"]
bogus_field = "oops"
`)
	_, warnings, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, w := range warnings {
		if w == "bogus_field" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a warning for bogus_field, got %v", warnings)
	}
}

func TestDecodeFile_LuaScriptDeferredDecode(t *testing.T) {
	path := writeTempFilter(t, `
command = ["echo"]

[lua_script]
lang = "luau"
source = "return output"
`)
	def, _, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.LuaScript == nil || def.LuaScript.Source != "return output" {
		t.Fatalf("unexpected lua_script: %+v", def.LuaScript)
	}
}

func TestDecodeFile_ParseAndOutput(t *testing.T) {
	path := writeTempFilter(t, `
command = ["git", "status"]

[parse.branch]
line = 1
pattern = '^## (\S+)$'
output = "{1}"

[parse.group.key]
pattern = '^(\?\?)'
output = "{1}"

[parse.group.labels]
"??" = "untracked"

[output]
format = "{branch}\n{group_counts}"
`)
	def, _, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Parse == nil || def.Parse.Branch == nil || def.Parse.Branch.Line != 1 {
		t.Fatalf("unexpected parse: %+v", def.Parse)
	}
	if def.Parse.Group.Labels["??"] != "untracked" {
		t.Fatalf("unexpected labels: %+v", def.Parse.Group.Labels)
	}
	if def.Output == nil || def.Output.Format == "" {
		t.Fatalf("unexpected output: %+v", def.Output)
	}
}
