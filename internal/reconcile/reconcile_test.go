package reconcile

import (
	"testing"

	"github.com/goliatone/go-cms-authoring/internal/domain"
	"github.com/google/go-cmp/cmp"
)

var original = []domain.FieldDescriptor{
	{Section: "BaseTemplate", Name: "Title", Type: "Single-Line Text"},
	{Section: "BaseTemplate", Name: "Summary", Type: "Multi-Line Text", Value: "old"},
	{Section: "Hero", Name: "Body", Type: "Rich Text"},
}

func TestReconcileByNameOverlaysValue(t *testing.T) {
	got := Reconcile(original[:1], []domain.GenerationItem{{Name: "Title", Value: "Hello"}}, Options{Strategy: ByName})
	want := []domain.FieldDescriptor{{Section: "BaseTemplate", Name: "Title", Type: "Single-Line Text", Value: "Hello"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcileKeepUnmatchedPreservesLengthAndOrder(t *testing.T) {
	generated := []domain.GenerationItem{{Name: "body", Value: "<p>x</p>", DisplayName: "Body copy"}}
	res := New().Reconcile(original, generated, Options{Strategy: ByName})

	if len(res.Fields) != len(original) {
		t.Fatalf("expected %d fields, got %d", len(original), len(res.Fields))
	}
	for i := range original {
		if res.Fields[i].Name != original[i].Name {
			t.Fatalf("order changed at %d: %s", i, res.Fields[i].Name)
		}
	}
	if res.Fields[1].Value != "" {
		t.Fatalf("unmatched value should be cleared, got %q", res.Fields[1].Value)
	}
	if res.Fields[2].Value != "<p>x</p>" || res.Fields[2].DisplayName != "Body copy" || res.Fields[2].Type != "Rich Text" {
		t.Fatalf("unexpected overlay %+v", res.Fields[2])
	}
	if res.Matched != 1 || res.Unmatched != 2 {
		t.Fatalf("unexpected counts %d/%d", res.Matched, res.Unmatched)
	}
}

func TestReconcileDropUnmatched(t *testing.T) {
	generated := []domain.GenerationItem{
		{Reference: "hero_body", Value: "b"},
		{Reference: "BaseTemplate_Title", Value: "t"},
		{Reference: "unknown_field", Value: "x"},
	}
	got := Reconcile(original, generated, Options{Strategy: BySectionName, DropUnmatched: true})
	want := []domain.FieldDescriptor{
		{Section: "BaseTemplate", Name: "Title", Type: "Single-Line Text", Value: "t"},
		{Section: "Hero", Name: "Body", Type: "Rich Text", Value: "b"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcileBySectionNameIgnoresBareNames(t *testing.T) {
	got := Reconcile(original, []domain.GenerationItem{{Name: "Title", Value: "t"}}, Options{Strategy: BySectionName, DropUnmatched: true})
	if len(got) != 0 {
		t.Fatalf("bare names must not match by section, got %+v", got)
	}
}

func TestReconcileBySectionNameFallsBackToItemSection(t *testing.T) {
	got := Reconcile(original, []domain.GenerationItem{{Section: "hero", Name: "BODY", Value: "b"}, {Reference: "hero.body", Value: "dotted"}}, Options{Strategy: BySectionName, DropUnmatched: true})
	if len(got) != 1 || got[0].Value != "dotted" {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestReconcileDuplicatePolicies(t *testing.T) {
	generated := []domain.GenerationItem{{Name: "Title", Value: "first"}, {Name: "Title", Value: "second"}}
	if got := Reconcile(original[:1], generated, Options{}); got[0].Value != "second" {
		t.Fatalf("last match should win, got %q", got[0].Value)
	}
	if got := Reconcile(original[:1], generated, Options{Duplicates: FirstMatchWins}); got[0].Value != "first" {
		t.Fatalf("first match should win, got %q", got[0].Value)
	}
}

func TestReconcileEmptyInputs(t *testing.T) {
	if got := Reconcile(nil, nil, Options{}); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
	got := Reconcile(original, nil, Options{DropUnmatched: true})
	if len(got) != 0 {
		t.Fatalf("expected all dropped, got %+v", got)
	}
}
