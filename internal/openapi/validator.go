package openapi

import (
	"strings"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/logger"
)

const componentsPrefix = "#/components/"

// Validator checks the structure, paths and component references of a document.
type Validator struct {
	log *logger.Logger
}

// NewValidator creates a validator that reports warnings through log.
func NewValidator(log *logger.Logger) *Validator {
	return &Validator{log: log}
}

// Validate runs ValidateStructure, ValidateReferences and ValidatePaths in that order.
func (v *Validator) Validate(raw any) (*domain.RawSpec, error) {
	spec, err := v.ValidateStructure(raw)
	if err != nil {
		return nil, err
	}
	if err := v.ValidateReferences(spec); err != nil {
		return nil, err
	}
	if err := v.ValidatePaths(spec); err != nil {
		return nil, err
	}
	return spec, nil
}

// ValidateStructure checks required top-level fields and container types.
// Versions other than 3.0.x are accepted with a warning.
func (v *Validator) ValidateStructure(raw any) (*domain.RawSpec, error) {
	root, ok := domain.AsObject(raw)
	if !ok {
		return nil, invalid("must be an object")
	}

	version, ok := root.GetString("openapi")
	if !ok {
		return nil, invalid("missing or invalid openapi version")
	}
	if !strings.HasPrefix(version, "3.0.") {
		v.log.Warn("OpenAPI version %s detected. This tool is tested with OpenAPI 3.0.x", version)
	}

	info, ok := root.GetObject("info")
	if !ok {
		return nil, invalid("missing or invalid info object")
	}
	if _, ok := info.GetString("title"); !ok {
		return nil, invalid("missing or invalid info.title")
	}
	if _, ok := info.GetString("version"); !ok {
		return nil, invalid("missing or invalid info.version")
	}

	if _, ok := root.GetObject("paths"); !ok {
		return nil, invalid("missing or invalid paths object")
	}

	if present(root, "components") {
		if _, ok := root.GetObject("components"); !ok {
			return nil, invalid("components must be an object")
		}
	}
	for _, key := range []string{"servers", "security", "tags"} {
		if present(root, key) {
			if _, ok := root.GetArray(key); !ok {
				return nil, invalid(key + " must be an array")
			}
		}
	}

	return &domain.RawSpec{Root: root}, nil
}

// ValidatePaths requires every path key to start with "/" and warns about
// path-level path parameters that the template never mentions.
func (v *Validator) ValidatePaths(spec *domain.RawSpec) error {
	paths := spec.Paths()
	for _, path := range paths.Keys() {
		if !strings.HasPrefix(path, "/") {
			return invalid("invalid path '" + path + "': must start with a forward slash")
		}

		item, ok := paths.GetObject(path)
		if !ok {
			continue
		}
		params, _ := item.GetArray("parameters")
		for _, p := range params {
			param, ok := domain.AsObject(p)
			if !ok {
				continue
			}
			if in, _ := param.GetString("in"); in != "path" {
				continue
			}
			name, _ := param.GetString("name")
			if !strings.Contains(path, "{"+name+"}") {
				v.log.Warn("Path parameter '%s' is defined but not used in path '%s'", name, path)
			}
		}
	}
	return nil
}

// ValidateReferences checks that every component defined purely as a $ref
// points at an existing component. References outside #/components/ are
// reported and skipped.
func (v *Validator) ValidateReferences(spec *domain.RawSpec) error {
	components := spec.Components()
	if components == nil {
		return nil
	}

	for _, category := range components.Keys() {
		entries, ok := components.GetObject(category)
		if !ok {
			continue
		}
		for _, name := range entries.Keys() {
			entry, ok := entries.GetObject(name)
			if !ok {
				continue
			}
			ref, ok := entry.GetString("$ref")
			if !ok {
				continue
			}
			if err := v.checkRef(components, ref, "components."+category+"."+name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (v *Validator) checkRef(components *domain.Object, ref, context string) error {
	if !strings.HasPrefix(ref, componentsPrefix) {
		v.log.Warn("External reference '%s' found in %s. External references are not fully supported.", ref, context)
		return nil
	}

	parts := strings.Split(ref, "/")
	if len(parts) < 4 {
		return &domain.ReferenceError{Ref: ref, Context: context, Reason: "malformed reference"}
	}
	category, name := parts[2], parts[3]

	if !components.Has(category) {
		return &domain.ReferenceError{
			Ref: ref, Context: context,
			Reason: "component type '" + category + "' not found",
		}
	}
	entries, _ := components.GetObject(category)
	if !entries.Has(name) {
		return &domain.ReferenceError{
			Ref: ref, Context: context,
			Reason: "component '" + name + "' not found in " + category,
		}
	}
	return nil
}

func invalid(msg string) error {
	return &domain.ValidationError{Message: msg}
}

// present mirrors a truthiness check: null and false count as absent.
func present(o *domain.Object, key string) bool {
	v, ok := o.Get(key)
	if !ok || v == nil {
		return false
	}
	if b, isBool := v.(bool); isBool && !b {
		return false
	}
	return true
}
