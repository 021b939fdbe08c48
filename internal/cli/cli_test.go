package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

// runCmd executes one root-command invocation against the given workspace dir
// and returns stdout. Every invocation is a fresh process-like session, the
// way scripts drive the CLI.
func runCmd(t *testing.T, dir string, stdin string, args ...string) string {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if stdin != "" {
		cmd.SetIn(strings.NewReader(stdin))
	}
	cmd.SetArgs(append([]string{"--dir", dir}, args...))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("arbor %v: %v (stderr: %s)", args, err, errOut.String())
	}
	return out.String()
}

func decode[T any](t *testing.T, raw string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("bad json output %q: %v", raw, err)
	}
	return v
}

func TestCLI_AddListComplete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".arbor")

	work := decode[taskView](t, runCmd(t, dir, "", "add", "Work"))
	if work.Name != "Work" || work.ID == "" {
		t.Fatalf("unexpected add output: %+v", work)
	}
	report := decode[taskView](t, runCmd(t, dir, "", "add", "Report", "--parent", work.ID))
	if report.ParentID == nil || *report.ParentID != work.ID {
		t.Fatalf("expected child of work; got %+v", report)
	}

	list := decode[listPayload](t, runCmd(t, dir, "", "list"))
	if list.Count != 2 {
		t.Fatalf("expected 2 rows; got %d", list.Count)
	}
	if list.Rows[0].Name != "Work" || list.Rows[1].Depth != 1 {
		t.Fatalf("unexpected outline: %+v", list.Rows)
	}

	done := decode[[]taskView](t, runCmd(t, dir, "", "complete", report.ID))
	if len(done) != 1 || !done[0].Completed {
		t.Fatalf("expected completed report; got %+v", done)
	}
}

func TestCLI_PasteBuildsHierarchy(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".arbor")

	text := "Work\n\tReport\n\t\tDraft\nHome\n"
	out := decode[map[string]any](t, runCmd(t, dir, text, "paste"))
	if out["created"] != float64(4) {
		t.Fatalf("expected 4 created; got %v", out["created"])
	}

	list := decode[listPayload](t, runCmd(t, dir, "", "list"))
	depths := make([]int, 0, len(list.Rows))
	for _, r := range list.Rows {
		depths = append(depths, r.Depth)
	}
	want := []int{0, 1, 2, 0}
	for i := range want {
		if depths[i] != want[i] {
			t.Fatalf("expected depths %v; got %v", want, depths)
		}
	}
}

func TestCLI_CollapsePersistsAcrossInvocations(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".arbor")

	work := decode[taskView](t, runCmd(t, dir, "", "add", "Work"))
	runCmd(t, dir, "", "add", "Report", "--parent", work.ID)
	runCmd(t, dir, "", "collapse", work.ID)

	list := decode[listPayload](t, runCmd(t, dir, "", "list"))
	if list.Count != 1 {
		t.Fatalf("expected collapsed outline with 1 row; got %d", list.Count)
	}
	all := decode[listPayload](t, runCmd(t, dir, "", "list", "--all"))
	if all.Count != 2 {
		t.Fatalf("expected --all to ignore collapse; got %d", all.Count)
	}
}

func TestCLI_ExportRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".arbor")

	runCmd(t, dir, "Work\n\tReport\n", "paste")
	out := runCmd(t, dir, "", "export")
	if out != "Work\n\tReport\n" {
		t.Fatalf("unexpected export: %q", out)
	}

	// Text format renders the same outline shape from list.
	text := runCmd(t, dir, "", "list", "--format", "text")
	if !strings.Contains(text, "Work\n") || !strings.Contains(text, "\tReport\n") {
		t.Fatalf("unexpected text listing: %q", text)
	}
}

func TestCLI_TagAddAndAttach(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".arbor")

	tag := decode[map[string]any](t, runCmd(t, dir, "", "tag", "add", "urgent"))
	tagID, _ := tag["id"].(string)
	if tagID == "" || tag["label"] != "urgent" {
		t.Fatalf("unexpected tag: %+v", tag)
	}

	work := decode[taskView](t, runCmd(t, dir, "", "add", "Work"))
	tagged := decode[taskView](t, runCmd(t, dir, "", "edit", work.ID, "--tags", tagID))
	if len(tagged.TagIDs) != 1 || tagged.TagIDs[0] != tagID {
		t.Fatalf("expected tag attached; got %+v", tagged.TagIDs)
	}

	// Unknown tag ids are refused before anything is written.
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--dir", dir, "edit", work.ID, "--tags", "no-such-tag"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected unknown tag id refused")
	}

	listed := decode[map[string]any](t, runCmd(t, dir, "", "tag", "list"))
	if listed["count"] != float64(1) {
		t.Fatalf("expected 1 tag listed; got %v", listed["count"])
	}
}

func TestCLI_TemplatesAreSeparate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".arbor")

	tpl := decode[taskView](t, runCmd(t, dir, "", "add", "Checklist", "--templates"))
	if tpl.Kind != "template" {
		t.Fatalf("expected template kind; got %q", tpl.Kind)
	}
	live := decode[listPayload](t, runCmd(t, dir, "", "list"))
	if live.Count != 0 {
		t.Fatalf("expected empty live forest; got %d rows", live.Count)
	}

	inst := decode[taskView](t, runCmd(t, dir, "", "templates", "instantiate", tpl.ID))
	if inst.Kind != "live" {
		t.Fatalf("expected live instance; got %q", inst.Kind)
	}
}
