package bindings

import (
	"errors"
	"testing"
)

const pageLayout = `<r xmlns:s="s"><d><r s:id="{AAAAAAAA-0000-0000-0000-000000000001}" s:ph="main" uid="{BBBBBBBB-0000-0000-0000-000000000002}" /></d></r>`

func TestApplyAllWritesCanonicalDatasource(t *testing.T) {
	p := NewPlanner()
	if _, err := p.RecordBinding("{BBBBBBBB-0000-0000-0000-000000000002}", "43c1bc5d831f47f89d03d3ba6602a0fd", "/sitecore/content/Home/Data/Hero"); err != nil {
		t.Fatalf("RecordBinding: %v", err)
	}

	res, err := p.ApplyAll(pageLayout)
	if err != nil {
		t.Fatalf("ApplyAll: %v", err)
	}
	want := `<r xmlns:s="s"><d><r s:id="{AAAAAAAA-0000-0000-0000-000000000001}" s:ph="main" uid="{BBBBBBBB-0000-0000-0000-000000000002}" s:ds="{43C1BC5D-831F-47F8-9D03-D3BA6602A0FD}" /></d></r>`
	if res.Text != want {
		t.Fatalf("text mismatch\nwant %s\ngot  %s", want, res.Text)
	}

	again, err := p.ApplyAll(res.Text)
	if err != nil {
		t.Fatalf("ApplyAll: %v", err)
	}
	if again.Text != res.Text || again.Updated != 0 {
		t.Fatalf("expected idempotent application, got %+v", again)
	}
}

func TestRecordBindingKeepsEveryEntry(t *testing.T) {
	p := NewPlanner()
	_, _ = p.RecordBinding("{BBBBBBBB-0000-0000-0000-000000000002}", "{11111111-0000-0000-0000-000000000000}", "")
	_, _ = p.RecordBinding("{BBBBBBBB-0000-0000-0000-000000000002}", "{22222222-0000-0000-0000-000000000000}", "")

	if p.Len() != 2 {
		t.Fatalf("expected both bindings retained, got %d", p.Len())
	}
	res, err := p.ApplyAll(pageLayout)
	if err != nil {
		t.Fatalf("ApplyAll: %v", err)
	}
	if res.Updated != 1 {
		t.Fatalf("expected one updated element, got %d", res.Updated)
	}
	parsedBindings := p.Bindings()
	parsedBindings[0].ContentItemID = "changed"
	if p.Bindings()[0].ContentItemID == "changed" {
		t.Fatal("Bindings must return a copy")
	}
}

func TestRecordBindingRequiresInstance(t *testing.T) {
	if _, err := NewPlanner().RecordBinding(" ", "{1}", ""); !errors.Is(err, ErrInstanceIDRequired) {
		t.Fatalf("expected ErrInstanceIDRequired, got %v", err)
	}
}

func TestApplyAllSkipsInvalidContentIDs(t *testing.T) {
	p := NewPlanner()
	_, _ = p.RecordBinding("{BBBBBBBB-0000-0000-0000-000000000002}", "bogus", "")
	res, err := p.ApplyAll(pageLayout)
	if err != nil {
		t.Fatalf("ApplyAll: %v", err)
	}
	if res.Text != pageLayout || len(res.Skipped) != 1 {
		t.Fatalf("expected untouched document and one skip, got %+v", res)
	}
}
