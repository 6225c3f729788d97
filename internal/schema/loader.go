package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a YAML schema file from the given path.
func LoadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into an unresolved Model.
func Parse(data []byte) (*Model, error) {
	var f fileYAML

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	m := &Model{Version: f.Version}
	if m.Version == "" {
		m.Version = "1"
	}

	for i := range f.Classes {
		cy := &f.Classes[i]
		if cy.Name == "" {
			return nil, fmt.Errorf("class #%d: name is required", i+1)
		}

		c := &GeneratedClass{
			Name:    cy.Name,
			Parent:  cy.Parent,
			Comment: cy.Comment,
		}

		for j := range cy.Attributes {
			ay := &cy.Attributes[j]
			if ay.Name == "" {
				return nil, fmt.Errorf("class %s attribute #%d: name is required", c.Name, j+1)
			}

			attr, err := ay.toAttribute(c.Name)
			if err != nil {
				return nil, err
			}

			attr.Owner = c
			c.Attributes = append(c.Attributes, attr)
		}

		for _, iv := range cy.InitialValues {
			c.InitialValues = append(c.InitialValues, &InitialValue{Setter: iv.Setter, Value: iv.Value})
		}

		m.Classes = append(m.Classes, c)
	}

	return m, nil
}

// Marshal serializes a Model back to YAML. Resolved links are not written.
func Marshal(m *Model) ([]byte, error) {
	f := fileYAML{Version: m.Version}

	for _, c := range m.Classes {
		cy := classYAML{
			Name:    c.Name,
			Parent:  c.Parent,
			Comment: c.Comment,
		}

		for _, a := range c.Attributes {
			cy.Attributes = append(cy.Attributes, fromAttribute(a))
		}

		for _, iv := range c.InitialValues {
			cy.InitialValues = append(cy.InitialValues, initialValueYAML{Setter: iv.Setter, Value: iv.Value})
		}

		f.Classes = append(f.Classes, cy)
	}

	return yaml.Marshal(&f)
}

// WriteFile writes a Model to the given path.
func WriteFile(m *Model, path string) error {
	data, err := Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write schema file %s: %w", path, err)
	}

	return nil
}
