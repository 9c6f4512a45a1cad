package types

// FlattenProperties recursively flattens nested groups into an ordered list
// of leaf properties.
func FlattenProperties(props []Property) []Property {
	out := make([]Property, 0, len(props))
	for _, p := range props {
		if p.IsGroup() {
			out = append(out, FlattenProperties(p.Children)...)
			continue
		}
		out = append(out, p)
	}
	return out
}

// HasPropertyType reports whether any property, group or leaf, at any depth
// has the given editor type.
func HasPropertyType(props []Property, t PropertyType) bool {
	for _, p := range props {
		if p.Type == t {
			return true
		}
		if len(p.Children) > 0 && HasPropertyType(p.Children, t) {
			return true
		}
	}
	return false
}

// PortalSlots returns the names of the direct portal-slot properties in a
// dynamic list item schema.
func PortalSlots(schema []Property) []string {
	var names []string
	for _, p := range FlattenProperties(schema) {
		if p.InputType == InputPortalSlot && p.Name != "" {
			names = append(names, p.Name)
		}
	}
	return names
}

// ExposesPortalSlot reports whether any property resolves to a portal slot,
// either directly or through a dynamic list schema.
func ExposesPortalSlot(props []Property) bool {
	for _, p := range FlattenProperties(props) {
		if p.InputType == InputPortalSlot {
			return true
		}
		if p.InputType == InputDynamicList && len(PortalSlots(p.Schema)) > 0 {
			return true
		}
	}
	return false
}
