package layout

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-cms-authoring/internal/identity"
	"github.com/google/go-cmp/cmp"
)

const sampleLayout = `<r xmlns:p="p" xmlns:s="s" p:p="1"><d id="{FE5D7FDF-89C0-4D99-9AA3-B5FBD009C9F3}"><r uid="{AAAAAAAA-0000-0000-0000-000000000001}" s:id="{bbbbbbbb-0000-0000-0000-000000000002}" s:ph="main" /><r uid="{AAAAAAAA-0000-0000-0000-000000000003}" s:id="{BBBBBBBB-0000-0000-0000-000000000004}" s:ph="sidebar" s:ds="{CCCCCCCC-0000-0000-0000-000000000005}"></r></d></r>`

func TestParseReturnsAssignmentsInDocumentOrder(t *testing.T) {
	got, err := Parse(sampleLayout)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []RenderingAssignment{
		{
			ComponentID: "{BBBBBBBB-0000-0000-0000-000000000002}",
			Placeholder: "main",
			InstanceID:  "{AAAAAAAA-0000-0000-0000-000000000001}",
		},
		{
			ComponentID: "{BBBBBBBB-0000-0000-0000-000000000004}",
			Placeholder: "sidebar",
			InstanceID:  "{AAAAAAAA-0000-0000-0000-000000000003}",
			Datasource:  "{CCCCCCCC-0000-0000-0000-000000000005}",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("assignments mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   \n"} {
		got, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q): %v", input, err)
		}
		if len(got) != 0 {
			t.Fatalf("Parse(%q) = %v, want empty", input, got)
		}
	}
}

func TestParseSkipsElementsWithoutIdentifiers(t *testing.T) {
	input := `<r><r s:id="{B}" s:ph="main"/><r uid="{A}" s:ph="main"/><r uid="{a}" s:id="{b}"/></r>`
	got, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []RenderingAssignment{{ComponentID: "{B}", InstanceID: "{A}"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("assignments mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMalformedDocument(t *testing.T) {
	_, err := Parse("this is not markup <<")
	if !errors.Is(err, ErrMalformedDocument) {
		t.Fatalf("expected ErrMalformedDocument, got %v", err)
	}
}

func TestParseRecoversRenderingsFromBrokenDocument(t *testing.T) {
	input := `<r><d><r uid="{A1}" s:id="{B1}" s:ph="main"/></r>`
	got, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 1 || got[0].InstanceID != "{A1}" || got[0].Placeholder != "main" {
		t.Fatalf("unexpected assignments %+v", got)
	}
}

func TestApplyBindingsInsertsDatasource(t *testing.T) {
	input := `<r s:id="{b1}" s:ph="main" uid="{a1a1a1a1-0000-0000-0000-000000000000}"/>`
	res, err := ApplyBindings(input, []DatasourceBinding{{
		RenderingInstanceID: "{A1A1A1A1-0000-0000-0000-000000000000}",
		ContentItemID:       "43c1bc5d831f47f89d03d3ba6602a0fd",
	}})
	if err != nil {
		t.Fatalf("ApplyBindings: %v", err)
	}
	if res.Updated != 1 {
		t.Fatalf("expected 1 update, got %d", res.Updated)
	}
	want := `<r s:id="{b1}" s:ph="main" uid="{a1a1a1a1-0000-0000-0000-000000000000}" s:ds="{43C1BC5D-831F-47F8-9D03-D3BA6602A0FD}"/>`
	if res.Text != want {
		t.Fatalf("text mismatch\nwant %s\ngot  %s", want, res.Text)
	}

	parsed, err := Parse(res.Text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed[0].Datasource != "{43C1BC5D-831F-47F8-9D03-D3BA6602A0FD}" {
		t.Fatalf("datasource not readable: %+v", parsed[0])
	}
}

func TestApplyBindingsReplacesExistingDatasource(t *testing.T) {
	res, err := ApplyBindings(sampleLayout, []DatasourceBinding{{
		RenderingInstanceID: "aaaaaaaa000000000000000000000003",
		ContentItemID:       "{dddddddd-0000-0000-0000-000000000006}",
	}})
	if err != nil {
		t.Fatalf("ApplyBindings: %v", err)
	}
	want := strings.Replace(sampleLayout, "{CCCCCCCC-0000-0000-0000-000000000005}", "{DDDDDDDD-0000-0000-0000-000000000006}", 1)
	if res.Text != want {
		t.Fatalf("text mismatch\nwant %s\ngot  %s", want, res.Text)
	}
}

func TestApplyBindingsLeavesUnmatchedElementsUntouched(t *testing.T) {
	res, err := ApplyBindings(sampleLayout, []DatasourceBinding{{
		RenderingInstanceID: "{AAAAAAAA-0000-0000-0000-000000000001}",
		ContentItemID:       "{EEEEEEEE-0000-0000-0000-000000000007}",
	}})
	if err != nil {
		t.Fatalf("ApplyBindings: %v", err)
	}
	before, _ := Parse(sampleLayout)
	after, err := Parse(res.Text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(before) != len(after) {
		t.Fatalf("rendering count changed: %d -> %d", len(before), len(after))
	}
	if diff := cmp.Diff(before[1], after[1]); diff != "" {
		t.Fatalf("unmatched rendering changed (-before +after):\n%s", diff)
	}
	if after[0].Datasource != "{EEEEEEEE-0000-0000-0000-000000000007}" {
		t.Fatalf("expected bound datasource, got %+v", after[0])
	}
}

func TestApplyBindingsLastBindingWins(t *testing.T) {
	input := `<r uid="{A1A1A1A1-0000-0000-0000-000000000000}" s:id="{B}"/>`
	res, err := ApplyBindings(input, []DatasourceBinding{
		{RenderingInstanceID: "{A1A1A1A1-0000-0000-0000-000000000000}", ContentItemID: "{11111111-0000-0000-0000-000000000000}"},
		{RenderingInstanceID: "{a1a1a1a1-0000-0000-0000-000000000000}", ContentItemID: "{22222222-0000-0000-0000-000000000000}"},
	})
	if err != nil {
		t.Fatalf("ApplyBindings: %v", err)
	}
	if !strings.Contains(res.Text, `s:ds="{22222222-0000-0000-0000-000000000000}"`) || strings.Contains(res.Text, "11111111") {
		t.Fatalf("unexpected text %s", res.Text)
	}
}

func TestApplyBindingsSkipsInvalidIdentifiers(t *testing.T) {
	input := `<r uid="{A1A1A1A1-0000-0000-0000-000000000000}" s:id="{B}"/>`
	res, err := ApplyBindings(input, []DatasourceBinding{
		{RenderingInstanceID: "{A1A1A1A1-0000-0000-0000-000000000000}", ContentItemID: "not-a-guid"},
	})
	if err != nil {
		t.Fatalf("ApplyBindings: %v", err)
	}
	if res.Text != input || res.Updated != 0 {
		t.Fatalf("expected unchanged document, got %+v", res)
	}
	if len(res.Skipped) != 1 || !errors.Is(res.Skipped[0].Err, identity.ErrInvalidIdentifier) {
		t.Fatalf("expected one skipped binding, got %+v", res.Skipped)
	}
}

func TestApplyBindingsNoBindingsIsIdentity(t *testing.T) {
	res, err := ApplyBindings(sampleLayout, nil)
	if err != nil {
		t.Fatalf("ApplyBindings: %v", err)
	}
	if res.Text != sampleLayout {
		t.Fatal("expected document unchanged")
	}
}

func TestApplyBindingsRejectsMalformedDocument(t *testing.T) {
	_, err := ApplyBindings(`<r uid="{A}"><d></r>`, []DatasourceBinding{{
		RenderingInstanceID: "{A1A1A1A1-0000-0000-0000-000000000000}",
		ContentItemID:       "{11111111-0000-0000-0000-000000000000}",
	}})
	if !errors.Is(err, ErrMalformedDocument) {
		t.Fatalf("expected ErrMalformedDocument, got %v", err)
	}
}

func TestApplyBindingsPreservesSurroundingBytes(t *testing.T) {
	input := "<?xml version=\"1.0\"?>\n<r>\n  <!-- keep -->\n  <r  uid='{A1A1A1A1-0000-0000-0000-000000000000}'\ts:id=\"{B}\" >x</r>\n</r>\n"
	res, err := ApplyBindings(input, []DatasourceBinding{{
		RenderingInstanceID: "{A1A1A1A1-0000-0000-0000-000000000000}",
		ContentItemID:       "{11111111-0000-0000-0000-000000000000}",
	}})
	if err != nil {
		t.Fatalf("ApplyBindings: %v", err)
	}
	want := "<?xml version=\"1.0\"?>\n<r>\n  <!-- keep -->\n  <r  uid='{A1A1A1A1-0000-0000-0000-000000000000}'\ts:id=\"{B}\" s:ds=\"{11111111-0000-0000-0000-000000000000}\" >x</r>\n</r>\n"
	if res.Text != want {
		t.Fatalf("text mismatch\nwant %q\ngot  %q", want, res.Text)
	}
}

func TestCodecLogsSkippedBindings(t *testing.T) {
	logger := &recordingLogger{}
	codec := NewCodec(WithLogger(logger))
	_, err := codec.ApplyBindings(sampleLayout, []DatasourceBinding{{RenderingInstanceID: "", ContentItemID: "{11111111-0000-0000-0000-000000000000}"}})
	if err != nil {
		t.Fatalf("ApplyBindings: %v", err)
	}
	if len(logger.warnings) != 1 || logger.warnings[0] != "layout.binding.invalid_identifier" {
		t.Fatalf("expected one warning, got %v", logger.warnings)
	}
}
