// Package sidebar provides the navigation manifest: an ordered mapping from
// sidebar category labels to ordered document identifiers.
package sidebar

// Category is one labelled sidebar section. Items are opaque document
// identifiers, resolved against the content directory by the renderer.
type Category struct {
	Label string
	Items []string
}

// Manifest is a single named sidebar. Category order is display order.
type Manifest struct {
	ID         string
	Categories []Category
}

// DefaultID is the sidebar id the docs plugin looks up.
const DefaultID = "someSidebar"

// Default returns the navigation manifest of the site. Each call returns a
// fresh value.
func Default() Manifest {
	return Manifest{
		ID: DefaultID,
		Categories: []Category{
			{Label: "pybulletX", Items: []string{"intro"}},
			{Label: "Getting Started", Items: []string{"installation"}},
			{Label: "Tutorial", Items: []string{
				"tutorial/pybullet_world",
				"tutorial/joint_info",
				"tutorial/pybulletx_body",
				"tutorial/pybulletx_robot",
				"tutorial/simulation_thread",
				"tutorial/putting_it_all_together",
				"tutorial/control_panel",
			}},
			{Label: "Advanced", Items: []string{"advanced/client"}},
		},
	}
}

// Labels returns the category labels in display order.
func (m Manifest) Labels() []string {
	out := make([]string, 0, len(m.Categories))
	for _, c := range m.Categories {
		out = append(out, c.Label)
	}
	return out
}

// Items returns the document identifiers of the category with the given label.
func (m Manifest) Items(label string) ([]string, bool) {
	for _, c := range m.Categories {
		if c.Label == label {
			return append([]string(nil), c.Items...), true
		}
	}
	return nil, false
}

// DocIDs returns every document identifier in display order, duplicates included.
func (m Manifest) DocIDs() []string {
	var out []string
	for _, c := range m.Categories {
		out = append(out, c.Items...)
	}
	return out
}

// Clone returns a deep copy of m.
func (m Manifest) Clone() Manifest {
	out := Manifest{ID: m.ID}
	if m.Categories == nil {
		return out
	}
	out.Categories = make([]Category, len(m.Categories))
	for i, c := range m.Categories {
		out.Categories[i] = Category{Label: c.Label, Items: append([]string(nil), c.Items...)}
	}
	return out
}
