package items

import (
	"context"
	"errors"

	"github.com/goliatone/go-cms-authoring/internal/domain"
)

// Service creates content items and reads or writes their layout field.
type Service interface {
	ResolveTemplateID(ctx context.Context, ref string) (string, error)
	ResolveParent(ctx context.Context, hint ParentHint) (string, error)
	Create(ctx context.Context, input CreateInput) (*Item, error)
	GetLayout(ctx context.Context, itemID string) (string, error)
	UpdateLayout(ctx context.Context, itemID, layoutXML string) error
	FormatValue(field domain.FieldDescriptor, raw string) (string, error)
}

var (
	ErrNameRequired     = errors.New("items: item name required")
	ErrItemIDRequired   = errors.New("items: item id required")
	ErrItemNotFound     = errors.New("items: item not found")
	ErrItemNotCreated   = errors.New("items: create returned no item")
	ErrParentUnresolved = errors.New("items: parent item could not be resolved")
)

// FieldValue is one field written on item creation.
type FieldValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CreateInput describes a new content item. Creation is not idempotent;
// repeating a call creates another item.
type CreateInput struct {
	Name       string
	ParentID   string
	TemplateID string
	Fields     []FieldValue
}

// Item is a created content item.
type Item struct {
	ItemID      string `json:"itemId"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Path        string `json:"path"`
	Template    struct {
		Name     string `json:"name"`
		FullName string `json:"fullName"`
	} `json:"template"`
}

// ParentHint lists the candidates for the parent of a new item, strongest
// first: an explicit id, then a datasource location that is a braced id or
// an absolute path.
type ParentHint struct {
	ExplicitID string
	Location   string
}
