package templates

import (
	"testing"

	"github.com/goliatone/go-cms-authoring/internal/domain"
	"github.com/google/go-cmp/cmp"
)

func TestMergeFieldSetsFirstSeenWins(t *testing.T) {
	page := []domain.FieldDescriptor{
		{Section: "Page", Name: "Title", Type: "Single-Line Text"},
		{Section: "Page", Name: "Summary", Type: "Multi-Line Text"},
	}
	seo := []domain.FieldDescriptor{
		{Section: "SEO", Name: "Title", Type: "Rich Text", ShortHelp: "seo"},
		{Section: "SEO", Name: "MetaDescription", Type: "Multi-Line Text"},
	}

	got := MergeFieldSets(MergeOptions{Bucket: "BaseTemplate"}, page, seo)
	want := []domain.FieldDescriptor{
		{Section: "BaseTemplate", Name: "Title", Type: "Single-Line Text"},
		{Section: "BaseTemplate", Name: "Summary", Type: "Multi-Line Text"},
		{Section: "BaseTemplate", Name: "MetaDescription", Type: "Multi-Line Text"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFieldSetsLastSeenWinsKeepsPosition(t *testing.T) {
	a := []domain.FieldDescriptor{{Section: "S", Name: "Title", Type: "A"}, {Section: "S", Name: "Body"}}
	b := []domain.FieldDescriptor{{Section: "S", Name: "title", Type: "B"}}

	got := MergeFieldSets(MergeOptions{Policy: LastSeenWins}, a, b)
	if len(got) != 2 || got[0].Type != "B" || got[1].Name != "Body" {
		t.Fatalf("unexpected merge %+v", got)
	}
}

func TestMergeFieldSetsKeepsSectionsApartWithoutBucket(t *testing.T) {
	a := []domain.FieldDescriptor{{Section: "One", Name: "Title"}}
	b := []domain.FieldDescriptor{{Section: "Two", Name: "Title"}}
	if got := MergeFieldSets(MergeOptions{}, a, b); len(got) != 2 {
		t.Fatalf("expected both sections kept, got %+v", got)
	}
	if got := MergeFieldSets(MergeOptions{}); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}

func TestParentPath(t *testing.T) {
	const root = "/sitecore/templates/Project"
	cases := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"/sitecore/templates/Project/Common/", "/sitecore/templates/Project", true},
		{root, "", false},
		{"/sitecore", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParentPath(tc.path, root)
		if got != tc.want || ok != tc.wantOK {
			t.Fatalf("ParentPath(%q) = %q,%v want %q,%v", tc.path, got, ok, tc.want, tc.wantOK)
		}
	}
}
