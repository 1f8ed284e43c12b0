package access

import "sort"

// catalog is the fixed vocabulary of concrete permissions with their
// human-readable descriptions. It is declarative: the engine consults it for
// lookup and validation only, never to decide access. Wildcard patterns can
// grant permissions the catalog does not list; that is deliberate.
var catalog = map[string]string{
	// Drawing analysis
	"drawing.upload":  "Upload technical drawings",
	"drawing.read":    "View drawings and analysis results",
	"drawing.analyze": "Initiate AI drawing analysis",
	"drawing.comment": "Add comments to drawings",
	"drawing.approve": "Approve drawings and analyses",
	"drawing.delete":  "Delete drawings",
	"drawing.export":  "Export drawings and results",

	// Simulation
	"simulation.create":    "Create simulation projects",
	"simulation.read":      "View simulation results",
	"simulation.run":       "Execute simulations",
	"simulation.modify":    "Modify simulation parameters",
	"simulation.delete":    "Delete simulations",
	"simulation.ai_assist": "Use AI simulation assistant",

	// Project management
	"project.create":    "Create new projects",
	"project.read":      "View project information",
	"project.modify":    "Modify project details",
	"project.delete":    "Delete projects",
	"project.assign":    "Assign team members to projects",
	"project.financial": "Access financial information",

	// AI services
	"ai.query":     "Query AI assistant",
	"ai.advanced":  "Use advanced AI features",
	"ai.train":     "Train AI models",
	"ai.configure": "Configure AI settings",

	// Administration
	"admin.users":   "Manage user accounts",
	"admin.roles":   "Manage roles and permissions",
	"admin.system":  "System administration",
	"admin.audit":   "View audit logs",
	"admin.reports": "Generate system reports",

	// Engineering domains
	"upstream.access":   "Access upstream domain",
	"midstream.access":  "Access midstream domain",
	"downstream.access": "Access downstream domain",
	"offshore.access":   "Access offshore domain",
	"onshore.access":    "Access onshore domain",

	// Safety and compliance
	"safety.analyze":       "Perform safety analysis",
	"compliance.check":     "Check regulatory compliance",
	"environmental.assess": "Environmental impact assessment",

	// Data and reporting
	"data.export":      "Export data and reports",
	"data.import":      "Import external data",
	"reports.generate": "Generate reports",
	"reports.schedule": "Schedule automated reports",
}

// Describe returns the human-readable description of a permission, or
// "Unknown permission" for strings outside the catalog.
func Describe(permission string) string {
	if desc, ok := catalog[permission]; ok {
		return desc
	}
	return "Unknown permission"
}

// IsKnown reports whether the permission is part of the declared vocabulary.
func IsKnown(permission string) bool {
	_, ok := catalog[permission]
	return ok
}

// Permissions returns the full catalog keyed by permission string. The
// returned map is a copy; mutating it does not affect the catalog.
func Permissions() map[string]string {
	out := make(map[string]string, len(catalog))
	for k, v := range catalog {
		out[k] = v
	}
	return out
}

// PermissionNames returns all catalog permissions sorted lexicographically.
func PermissionNames() []string {
	names := make([]string, 0, len(catalog))
	for k := range catalog {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
