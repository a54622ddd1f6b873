// Package itemtypes holds the pluggable menu item type registry. The tree
// engine never looks in here; only the item-types listing endpoint does.
package itemtypes

// Option is one selectable value of an option-backed item type.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// FieldSchema describes one form field of an item type.
type FieldSchema struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Kind     string `json:"kind"`
	Required bool   `json:"required"`
}

// TypeDescriptor describes one registered menu item type. Options is nil
// for types without an option list; otherwise it is called with the
// requested locale when the type metadata is rendered.
type TypeDescriptor struct {
	Name      string
	Type      string
	IsDefault bool
	Fields    []FieldSchema
	Options   func(locale string) []Option
}

// Registry is the set of item types available to menus. It is built once at
// startup and handed to the boundary layer; registration is not safe for
// concurrent use.
type Registry struct {
	global  []TypeDescriptor
	perMenu map[string][]TypeDescriptor
}

func NewRegistry() *Registry {
	return &Registry{perMenu: map[string][]TypeDescriptor{}}
}

// Register adds a type available to every menu.
func (r *Registry) Register(d TypeDescriptor) {
	r.global = append(r.global, d)
}

// RegisterForMenu adds a type available only to the menu with the given slug.
func (r *Registry) RegisterForMenu(slug string, d TypeDescriptor) {
	r.perMenu[slug] = append(r.perMenu[slug], d)
}

// ForMenu returns the global types followed by the menu's own, in
// registration order.
func (r *Registry) ForMenu(slug string) []TypeDescriptor {
	out := make([]TypeDescriptor, 0, len(r.global)+len(r.perMenu[slug]))
	out = append(out, r.global...)
	out = append(out, r.perMenu[slug]...)
	return out
}

// DefaultType returns the type marked as default for the menu, or the empty
// string when none is.
func (r *Registry) DefaultType(slug string) string {
	for _, d := range r.ForMenu(slug) {
		if d.IsDefault {
			return d.Type
		}
	}
	return ""
}

// Default builds the registry with the builtin link and text types.
func Default() *Registry {
	r := NewRegistry()
	r.Register(TypeDescriptor{
		Name:      "Static URL",
		Type:      "link",
		IsDefault: true,
		Fields: []FieldSchema{
			{Name: "url", Label: "URL", Kind: "text", Required: true},
			{Name: "target", Label: "Open in", Kind: "select"},
		},
		Options: func(locale string) []Option {
			return []Option{
				{ID: "_self", Label: "Same window"},
				{ID: "_blank", Label: "New window"},
			}
		},
	})
	r.Register(TypeDescriptor{
		Name: "Text header",
		Type: "text",
		Fields: []FieldSchema{
			{Name: "text", Label: "Text", Kind: "text", Required: true},
		},
	})
	return r
}
