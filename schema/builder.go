package schema

// Property is one field of an object schema built with Object.
type Property struct {
	typ         string
	description string
	minLength   *int
}

// String creates a string property.
func String(description string) *Property {
	return &Property{typ: "string", description: description}
}

// MinLength requires string values of at least n characters.
func (p *Property) MinLength(n int) *Property {
	p.minLength = &n
	return p
}

func (p *Property) build() map[string]any {
	m := map[string]any{"type": p.typ}
	if p.description != "" {
		m["description"] = p.description
	}
	if p.minLength != nil {
		m["minLength"] = *p.minLength
	}
	return m
}

// Object creates an object schema from properties; the names in required must
// be present.
//
//	schema.Object(map[string]*schema.Property{
//	    "input": schema.String("Search query").MinLength(1),
//	}, "input")
func Object(properties map[string]*Property, required ...string) map[string]any {
	props := make(map[string]any, len(properties))
	for name, p := range properties {
		props[name] = p.build()
	}
	obj := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		obj["required"] = required
	}
	return obj
}
