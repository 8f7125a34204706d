package toml

import (
	"strings"

	"gmc/internal/core"
)

// tomlAttribute maps [[attributes]].
type tomlAttribute struct {
	Name     string `toml:"name"`
	Type     string `toml:"type"`
	Required bool   `toml:"required"`

	// Default accepts string, bool, integer or float from TOML.
	Default any `toml:"default"`

	MaxLength int      `toml:"max_length"`
	MinValue  *float64 `toml:"min_value"`
	MaxValue  *float64 `toml:"max_value"`
	Unique    bool     `toml:"unique"`
	Index     bool     `toml:"index"`

	// References is "table.column".
	References string `toml:"references"`
}

func convertAttribute(ta *tomlAttribute) (core.AttributeSpec, error) {
	t, ok := core.ParseAttributeType(ta.Type)
	if !ok {
		return core.AttributeSpec{}, core.Errorf(core.CodeInvalidAttribute,
			"unsupported type %q; supported: %v", ta.Type, core.SupportedAttributeTypes())
	}

	attr := core.AttributeSpec{
		Name:     ta.Name,
		Type:     t,
		Required: ta.Required,
		Default:  ta.Default,
	}

	if ta.hasConstraints() {
		attr.Constraints = &core.AttributeConstraints{
			MaxLength: ta.MaxLength,
			MinValue:  ta.MinValue,
			MaxValue:  ta.MaxValue,
			Unique:    ta.Unique,
			Index:     ta.Index,
		}
		if ta.References != "" {
			table, column, ok := parseReferences(ta.References)
			if !ok {
				return core.AttributeSpec{}, core.Errorf(core.CodeInvalidAttribute,
					"invalid references %q: expected format \"table.column\"", ta.References)
			}
			attr.Constraints.ForeignKey = &core.ForeignKey{Table: table, Column: column}
		}
	}

	return attr, nil
}

func (ta *tomlAttribute) hasConstraints() bool {
	return ta.MaxLength != 0 || ta.MinValue != nil || ta.MaxValue != nil ||
		ta.Unique || ta.Index || ta.References != ""
}

func parseReferences(ref string) (table, column string, ok bool) {
	table, column, ok = strings.Cut(ref, ".")
	if !ok || table == "" || column == "" || strings.Contains(column, ".") {
		return "", "", false
	}
	return table, column, true
}
