package types

// Clone returns a deep copy of the definition. Template function children
// are shared since functions are immutable.
func (d *Definition) Clone() *Definition {
	if d == nil {
		return nil
	}

	c := *d
	c.Aliases = cloneStrings(d.Aliases)
	c.CSS = cloneStrings(d.CSS)
	c.Directives = cloneStrings(d.Directives)
	c.Attrs = cloneAttrs(d.Attrs)
	c.A11yAttrs = cloneAttrs(d.A11yAttrs)
	c.Properties = cloneProperties(d.Properties)

	if d.ClassBindings != nil {
		c.ClassBindings = append([]ClassBinding(nil), d.ClassBindings...)
	}
	if d.Outputs != nil {
		c.Outputs = append([]Output(nil), d.Outputs...)
	}
	if d.Variants != nil {
		c.Variants = make(Variants, len(d.Variants))
		for i, v := range d.Variants {
			v.CSS = cloneStrings(v.CSS)
			v.Attrs = cloneAttrs(v.Attrs)
			c.Variants[i] = v
		}
	}
	if d.Children != nil {
		c.Children = make([]Child, len(d.Children))
		for i, child := range d.Children {
			c.Children[i] = Child{
				Markup:     child.Markup,
				Definition: child.Definition.Clone(),
				Template:   child.Template,
			}
		}
	}
	if d.AutoAddDefaultProperties != nil {
		v := *d.AutoAddDefaultProperties
		c.AutoAddDefaultProperties = &v
	}
	if d.Frame != nil {
		f := *d.Frame
		c.Frame = &f
	}

	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func cloneAttrs(a []Attr) []Attr {
	if a == nil {
		return nil
	}
	return append([]Attr(nil), a...)
}

func cloneProperties(props []Property) []Property {
	if props == nil {
		return nil
	}
	out := make([]Property, len(props))
	for i, p := range props {
		p.Default = CloneValue(p.Default)
		if p.MenuData != nil {
			p.MenuData = append([]MenuItem(nil), p.MenuData...)
		}
		p.Children = cloneProperties(p.Children)
		p.Schema = cloneProperties(p.Schema)
		out[i] = p
	}
	return out
}

// CloneValue deep-copies the maps and slices produced by YAML/JSON decoding.
func CloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[k] = CloneValue(val)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(t))
		for i, val := range t {
			s[i] = CloneValue(val)
		}
		return s
	default:
		return v
	}
}

// Clone returns a copy of the instance data safe to modify.
func (d *InstanceData) Clone() *InstanceData {
	if d == nil {
		return nil
	}
	c := *d
	if d.Inputs != nil {
		c.Inputs = CloneValue(d.Inputs).(map[string]interface{})
	}
	c.Attrs = cloneAttrs(d.Attrs)
	c.A11yInputs = cloneAttrs(d.A11yInputs)
	c.ChildIDs = cloneStrings(d.ChildIDs)
	if d.Styles != nil {
		c.Styles = make(map[string]string, len(d.Styles))
		for k, v := range d.Styles {
			c.Styles[k] = v
		}
	}
	if d.Frame != nil {
		f := *d.Frame
		c.Frame = &f
	}
	return &c
}
