package resource

// Registry maps a URL resource kind to its Definition.
type Registry struct {
	defs map[string]Definition
}

// NewRegistry builds a registry from the given definitions.
func NewRegistry(defs ...Definition) *Registry {
	m := make(map[string]Definition, len(defs))
	for _, d := range defs {
		m[d.Kind] = d
	}
	return &Registry{defs: m}
}

// Lookup resolves a resource kind.
func (r *Registry) Lookup(kind string) (Definition, bool) {
	def, ok := r.defs[kind]
	return def, ok
}

// All returns every registered definition.
func (r *Registry) All() []Definition {
	out := make([]Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	return out
}

// Builtin returns the content collections of the fencing site.
func Builtin() *Registry {
	published := StatusSpec{Values: []string{"Published", "Draft"}, Default: "Published"}
	active := StatusSpec{Values: []string{"Active", "Inactive"}, Default: "Active"}

	return NewRegistry(
		Definition{
			Kind:       "products",
			Collection: "products",
			Plural:     "products",
			Singular:   "product",
			Fields: []Field{
				{Name: "title", Type: FieldString, Required: true},
				{Name: "description", Type: FieldString},
				{Name: "category", Type: FieldString},
				{Name: "price", Type: FieldNumber},
				{Name: "images", Type: FieldStringArray},
				{Name: "features", Type: FieldStringArray},
				{Name: "specifications", Type: FieldStringArray},
			},
			Status: published,
		},
		Definition{
			Kind:       "blog",
			Collection: "blog_posts",
			Plural:     "posts",
			Singular:   "post",
			Fields: []Field{
				{Name: "title", Type: FieldString, Required: true},
				{Name: "slug", Type: FieldString},
				{Name: "excerpt", Type: FieldString},
				{Name: "content", Type: FieldString, Required: true},
				{Name: "coverImage", Type: FieldString},
				{Name: "author", Type: FieldString},
				{Name: "tags", Type: FieldStringArray},
			},
			Status: published,
		},
		Definition{
			Kind:       "applications",
			Collection: "applications",
			Plural:     "applications",
			Singular:   "application",
			Fields: []Field{
				{Name: "title", Type: FieldString, Required: true},
				{Name: "description", Type: FieldString},
				{Name: "image", Type: FieldString},
				{Name: "features", Type: FieldStringArray},
			},
			Status: active,
		},
		Definition{
			Kind:       "projects",
			Collection: "projects",
			Plural:     "projects",
			Singular:   "project",
			Fields: []Field{
				{Name: "title", Type: FieldString, Required: true},
				{Name: "description", Type: FieldString},
				{Name: "location", Type: FieldString},
				{Name: "client", Type: FieldString},
				{Name: "images", Type: FieldStringArray},
			},
			Status: published,
		},
		Definition{
			Kind:       "testimonials",
			Collection: "testimonials",
			Plural:     "testimonials",
			Singular:   "testimonial",
			Fields: []Field{
				{Name: "name", Type: FieldString, Required: true},
				{Name: "company", Type: FieldString},
				{Name: "message", Type: FieldString, Required: true},
				{Name: "rating", Type: FieldNumber},
				{Name: "avatar", Type: FieldString},
			},
			Status: active,
		},
		Definition{
			Kind:       "categories",
			Collection: "categories",
			Plural:     "categories",
			Singular:   "category",
			Fields: []Field{
				{Name: "name", Type: FieldString, Required: true},
				{Name: "description", Type: FieldString},
				{Name: "image", Type: FieldString},
			},
			Status:   active,
			KeyField: "name",
			Guard:    &ReferenceGuard{Collection: "products", Field: "category"},
		},
	)
}
