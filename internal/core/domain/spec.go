package domain

// HTTPMethods lists the operation keys of a path item, in processing order.
var HTTPMethods = []string{"get", "put", "post", "delete", "patch", "options", "head", "trace"}

// IsHTTPMethod reports whether m (lowercase) is a recognised operation key.
func IsHTTPMethod(m string) bool {
	for _, method := range HTTPMethods {
		if method == m {
			return true
		}
	}
	return false
}

// RawSpec is a structurally validated OpenAPI document.
// It is created once per run and treated as read-only afterwards.
type RawSpec struct {
	Root *Object
}

// Version returns the openapi version string.
func (s *RawSpec) Version() string {
	return s.Root.StringOr("openapi", "")
}

// Info returns the info object.
func (s *RawSpec) Info() *Object {
	info, _ := s.Root.GetObject("info")
	return info
}

// Paths returns the paths object.
func (s *RawSpec) Paths() *Object {
	paths, _ := s.Root.GetObject("paths")
	return paths
}

// Components returns the components object, or nil.
func (s *RawSpec) Components() *Object {
	c, _ := s.Root.GetObject("components")
	return c
}

// Component looks up components.<category>.<name>.
func (s *RawSpec) Component(category, name string) (any, bool) {
	cat, ok := s.Components().GetObject(category)
	if !ok {
		return nil, false
	}
	return cat.Get(name)
}

// Contact is the info.contact object.
type Contact struct {
	Name  string `json:"name,omitempty"`
	URL   string `json:"url,omitempty"`
	Email string `json:"email,omitempty"`
}

// License is the info.license object.
type License struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// APIInfo summarises a spec for display.
type APIInfo struct {
	Title         string   `json:"title"`
	Version       string   `json:"version"`
	Description   string   `json:"description"`
	EndpointCount int      `json:"endpointCount"`
	Contact       *Contact `json:"contact,omitempty"`
	License       *License `json:"license,omitempty"`
}

// NewAPIInfo builds the display summary of a spec.
func NewAPIInfo(spec *RawSpec) APIInfo {
	info := spec.Info()
	api := APIInfo{
		Title:       info.StringOr("title", "Untitled API"),
		Version:     info.StringOr("version", "0.0.0"),
		Description: info.StringOr("description", "No description provided"),
	}

	paths := spec.Paths()
	for _, p := range paths.Keys() {
		item, ok := paths.GetObject(p)
		if !ok {
			continue
		}
		for _, m := range HTTPMethods {
			if v, ok := item.Get(m); ok && v != nil {
				api.EndpointCount++
			}
		}
	}

	if c, ok := info.GetObject("contact"); ok {
		api.Contact = &Contact{
			Name:  c.StringOr("name", ""),
			URL:   c.StringOr("url", ""),
			Email: c.StringOr("email", ""),
		}
	}
	if l, ok := info.GetObject("license"); ok {
		api.License = &License{
			Name: l.StringOr("name", ""),
			URL:  l.StringOr("url", ""),
		}
	}

	return api
}
