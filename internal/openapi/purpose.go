package openapi

import "strings"

var methodActions = map[string]string{
	"get":     "Retrieve",
	"post":    "Create",
	"put":     "Update or replace",
	"patch":   "Partially update",
	"delete":  "Remove",
	"head":    "Check existence",
	"options": "Get supported operations",
}

// Resources ending in "s" that are not plurals.
var singularExceptions = map[string]bool{
	"status":   true,
	"settings": true,
}

// DerivePurpose describes what an operation does from its HTTP method and
// path shape alone. It is deterministic and performs no I/O.
//
//	GET    /pets/{id}        -> "Retrieve a specific pet by ID"
//	GET    /pets/mine/toys   -> "Get toys for a specific pet"
//	POST   /pets             -> "Create all pets"
func DerivePurpose(method, path string) string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}

	resource := "resource"
	if len(parts) > 0 {
		resource = parts[0]
	}
	plural := strings.HasSuffix(resource, "s") && !singularExceptions[resource]
	name := resource
	if plural {
		name = strings.TrimSuffix(resource, "s")
	}

	m := strings.ToLower(method)
	action, ok := methodActions[m]
	if !ok {
		action = "Process"
	}

	if len(parts) > 1 && strings.HasPrefix(parts[1], "{") {
		return action + " a specific " + name + " by ID"
	}

	if m == "get" && len(parts) > 1 {
		sub := parts[1]
		if len(parts) > 2 {
			sub = parts[2]
		}
		return "Get " + sub + " for a specific " + name
	}

	if plural {
		return action + " all " + name + "s"
	}
	return action + " " + name
}
