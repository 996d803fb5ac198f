package css

import "strings"

// Declaration is a single property: value pair.
type Declaration struct {
	Property string
	Value    string
}

// Prefixer adds vendor specific variants of declarations which still need
// them in some browsers. Original declaration is always kept and goes last.
type Prefixer struct {
	properties map[string][]string
	values     map[string]map[string][]string
}

// NewPrefixer returns prefixer with built-in tables.
func NewPrefixer() *Prefixer {
	return &Prefixer{
		properties: map[string][]string{
			"user-select":           {"-webkit-", "-moz-", "-ms-"},
			"appearance":            {"-webkit-", "-moz-"},
			"backdrop-filter":       {"-webkit-"},
			"text-size-adjust":      {"-webkit-", "-moz-", "-ms-"},
			"hyphens":               {"-webkit-", "-ms-"},
			"mask-image":            {"-webkit-"},
			"box-decoration-break":  {"-webkit-"},
			"tab-size":              {"-moz-"},
			"text-decoration-skip":  {"-webkit-"},
			"backface-visibility":   {"-webkit-"},
			"font-feature-settings": {"-webkit-", "-moz-"},
		},
		values: map[string]map[string][]string{
			"display": {
				"flex":        {"-webkit-box", "-ms-flexbox"},
				"inline-flex": {"-webkit-inline-box", "-ms-inline-flexbox"},
			},
			"position": {
				"sticky": {"-webkit-sticky"},
			},
		},
	}
}

// Prefix returns declarations to emit in place of property: value.
func (p *Prefixer) Prefix(property, value string) []Declaration {
	prop := strings.ToLower(property)
	if strings.HasPrefix(prop, "-") {
		// already vendor specific
		return []Declaration{{Property: property, Value: value}}
	}

	var out []Declaration
	for _, vendor := range p.properties[prop] {
		out = append(out, Declaration{Property: vendor + prop, Value: value})
	}
	if vals, ok := p.values[prop]; ok {
		v, important := strings.TrimSpace(value), ""
		if base, found := strings.CutSuffix(v, "!important"); found {
			v, important = strings.TrimSpace(base), "!important"
		}
		for _, alt := range vals[strings.ToLower(v)] {
			out = append(out, Declaration{Property: property, Value: alt + important})
		}
	}
	return append(out, Declaration{Property: property, Value: value})
}
