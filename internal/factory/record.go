package factory

// Attribute is one serialized attribute of a Record.
type Attribute struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
	Bare  bool   `json:"bare,omitempty" yaml:"bare,omitempty"`
}

// Record is a plain data snapshot of a factory, used to inspect a compiled
// tree without serializing it to markup.
type Record struct {
	Mode          string      `json:"mode" yaml:"mode"`
	TagName       string      `json:"tagName" yaml:"tagName"`
	Classes       []string    `json:"classes,omitempty" yaml:"classes,omitempty"`
	Attributes    []Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Directives    []string    `json:"directives,omitempty" yaml:"directives,omitempty"`
	Content       string      `json:"content,omitempty" yaml:"content,omitempty"`
	SwitchBinding string      `json:"switchBinding,omitempty" yaml:"switchBinding,omitempty"`
	SwitchTags    []string    `json:"switchTags,omitempty" yaml:"switchTags,omitempty"`
	Wrapper       *Record     `json:"wrapper,omitempty" yaml:"wrapper,omitempty"`
}

// Record returns a snapshot of the factory's current state.
func (f *Factory) Record() Record {
	r := Record{
		Mode:          f.mode.String(),
		TagName:       f.tagName,
		Classes:       append([]string(nil), f.classes...),
		Directives:    append([]string(nil), f.directives...),
		Content:       f.content.String(),
		SwitchBinding: f.switchBinding,
		SwitchTags:    append([]string(nil), f.switchTags...),
	}
	for _, a := range f.attrs {
		r.Attributes = append(r.Attributes, Attribute{Key: a.key, Value: a.value, Bare: a.bare})
	}
	if f.wrapper != nil {
		w := f.wrapper.Record()
		r.Wrapper = &w
	}
	return r
}
