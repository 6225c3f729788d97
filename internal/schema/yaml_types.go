package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type fileYAML struct {
	Version string      `yaml:"version,omitempty"`
	Classes []classYAML `yaml:"classes"`
}

type classYAML struct {
	Name          string             `yaml:"name"`
	Parent        string             `yaml:"parent,omitempty"`
	Comment       string             `yaml:"comment,omitempty"`
	Attributes    []attributeYAML    `yaml:"attributes,omitempty"`
	InitialValues []initialValueYAML `yaml:"initial_values,omitempty"`
}

type attributeYAML struct {
	Name          string            `yaml:"name"`
	Primitive     string            `yaml:"primitive,omitempty"`
	Class         string            `yaml:"class,omitempty"`
	FixedList     *fixedListYAML    `yaml:"fixed_list,omitempty"`
	VariableList  *variableListYAML `yaml:"variable_list,omitempty"`
	CountOf       string            `yaml:"count_of,omitempty"`
	Serialize     *bool             `yaml:"serialize,omitempty"`
	Default       *string           `yaml:"default,omitempty"`
	CouldBeString bool              `yaml:"could_be_string,omitempty"`
	Comment       string            `yaml:"comment,omitempty"`
}

type initialValueYAML struct {
	Setter string `yaml:"setter"`
	Value  string `yaml:"value"`
}

type fixedListYAML struct {
	Type   string `yaml:"type"`
	Length int    `yaml:"length"`
}

type variableListYAML struct {
	Type       string `yaml:"type"`
	CountField string `yaml:"count_field,omitempty"`
}

// fixedShorthand matches "unsigned byte[11]".
var fixedShorthand = regexp.MustCompile(`^\s*(.+?)\s*\[\s*(\d+)\s*\]\s*$`)

// UnmarshalYAML accepts either the "type[length]" shorthand or a mapping.
func (f *fixedListYAML) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		m := fixedShorthand.FindStringSubmatch(node.Value)
		if m == nil {
			return fmt.Errorf("line %d: fixed_list shorthand must look like type[length], got %q", node.Line, node.Value)
		}

		n, err := strconv.Atoi(m[2])
		if err != nil {
			return fmt.Errorf("line %d: fixed_list length: %w", node.Line, err)
		}

		*f = fixedListYAML{Type: m[1], Length: n}

		return nil

	case yaml.MappingNode:
		type plain fixedListYAML

		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}

		*f = fixedListYAML(p)

		return nil

	default:
		return fmt.Errorf("line %d: fixed_list must be a string or mapping", node.Line)
	}
}

// UnmarshalYAML accepts either a bare element type or a mapping.
func (v *variableListYAML) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*v = variableListYAML{Type: strings.TrimSpace(node.Value)}
		return nil

	case yaml.MappingNode:
		type plain variableListYAML

		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}

		*v = variableListYAML(p)

		return nil

	default:
		return fmt.Errorf("line %d: variable_list must be a string or mapping", node.Line)
	}
}

func (a *attributeYAML) toAttribute(owner string) (*ClassAttribute, error) {
	attr := &ClassAttribute{
		Name:            a.Name,
		Default:         a.Default,
		Comment:         a.Comment,
		ShouldSerialize: a.Serialize == nil || *a.Serialize,
		CouldBeString:   a.CouldBeString,
	}

	var kinds []string

	if a.Primitive != "" {
		kinds = append(kinds, "primitive")
		attr.Kind, attr.Type = Primitive{}, a.Primitive
	}

	if a.Class != "" {
		kinds = append(kinds, "class")
		attr.Kind, attr.Type = Reference{}, a.Class
	}

	if a.FixedList != nil {
		kinds = append(kinds, "fixed_list")
		attr.Kind, attr.Type = FixedList{Length: a.FixedList.Length}, a.FixedList.Type
	}

	if a.VariableList != nil {
		kinds = append(kinds, "variable_list")
		attr.Kind, attr.Type = VariableList{}, a.VariableList.Type
		attr.CountFieldName = a.VariableList.CountField
	}

	switch len(kinds) {
	case 0:
		return nil, fmt.Errorf("class %s attribute %q: one of primitive, class, fixed_list, variable_list is required", owner, a.Name)
	case 1:
	default:
		return nil, fmt.Errorf("class %s attribute %q: kinds are exclusive, got %s", owner, a.Name, strings.Join(kinds, ", "))
	}

	if a.CountOf != "" {
		attr.IsDynamicListLengthField = true
		attr.Counts = a.CountOf
	}

	return attr, nil
}

func fromAttribute(a *ClassAttribute) attributeYAML {
	out := attributeYAML{
		Name:          a.Name,
		Default:       a.Default,
		CouldBeString: a.CouldBeString,
		Comment:       a.Comment,
	}

	if !a.ShouldSerialize {
		f := false
		out.Serialize = &f
	}

	if a.IsDynamicListLengthField {
		out.CountOf = a.Counts
	}

	switch k := a.Kind.(type) {
	case Primitive:
		out.Primitive = a.Type
	case Reference:
		out.Class = a.Type
	case FixedList:
		out.FixedList = &fixedListYAML{Type: a.Type, Length: k.Length}
	case VariableList:
		out.VariableList = &variableListYAML{Type: a.Type, CountField: a.CountFieldName}
	}

	return out
}
