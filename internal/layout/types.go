package layout

import "errors"

// ErrMalformedDocument reports input that cannot be read as layout markup.
var ErrMalformedDocument = errors.New("layout: malformed document")

// Element and attribute names used by the layout field.
const (
	RenderingElement    = "r"
	ComponentAttribute  = "s:id"
	PlaceholderAttr     = "s:ph"
	InstanceAttribute   = "uid"
	DatasourceAttribute = "s:ds"
)

// RenderingAssignment is one component placed in a placeholder. ComponentID
// and InstanceID are upper-cased as found; Datasource carries the current
// binding, if any.
type RenderingAssignment struct {
	ComponentID string `json:"component_id"`
	Placeholder string `json:"placeholder"`
	InstanceID  string `json:"instance_id"`
	Datasource  string `json:"datasource,omitempty"`
}

// DatasourceBinding ties a rendering instance to a created content item.
type DatasourceBinding struct {
	RenderingInstanceID string `json:"rendering_instance_id"`
	ContentItemID       string `json:"content_item_id"`
	ContentItemPath     string `json:"content_item_path,omitempty"`
}

// SkippedBinding is a binding that was not written, with the reason.
type SkippedBinding struct {
	Binding DatasourceBinding
	Err     error
}

// ApplyResult is the outcome of writing bindings into a layout document.
type ApplyResult struct {
	Text    string
	Updated int
	Skipped []SkippedBinding
}
