package errors

import (
	stderrors "errors"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/vango-dev/outlet/pkg/outlet"
	"github.com/vango-dev/outlet/pkg/route"
	"github.com/vango-dev/outlet/pkg/storage"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	DocURL     string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Routing Errors (E100-E119)
	// ============================================

	"E100": {
		Category:   CategoryRouting,
		Message:    "No route matches the URL",
		Detail:     "Routes are tried in declaration order and the first match wins. Segments starting with ':' bind one segment and '*' binds the rest.",
		Suggestion: "Declare a catch-all route (path \"*\") last to handle unknown URLs",
	},
	"E104": {
		Category:   CategoryRouting,
		Message:    "Duplicate route",
		Detail:     "Two leaf routes fuse to the same path, or two routes resolve to the same name. Names are inherited from the deepest named ancestor.",
		Suggestion: "Rename one of the routes or merge them",
	},
	"E105": {
		Category:   CategoryRouting,
		Message:    "No route has the requested name",
		Detail:     "Name queries consider every route whose chain carries the name. With parameters, the first route whose path accepts them wins.",
		Suggestion: "Check the route name and that every ':param' in its path is supplied",
	},
	"E106": {
		Category:   CategoryRuntime,
		Message:    "Outlet has no router",
		Detail:     "An outlet without its own router must be nested inside another outlet to inherit one.",
		Suggestion: "Pass outlet.WithRouter(r) to the top-level outlet",
	},
	"E107": {
		Category:   CategoryRuntime,
		Message:    "Async component failed to load",
		Detail:     "The loader returned an error or a module without a constructor export.",
		Suggestion: "Export a func() any constructor from the loaded module",
	},

	// ============================================
	// Config Errors (E120-E139)
	// ============================================

	"E120": {
		Category:   CategoryConfig,
		Message:    "Invalid outlet.json",
		Detail:     "The configuration file could not be parsed as JSON.",
		Suggestion: "Check for missing commas, quotes or braces",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration field has a value outside its allowed set.",
	},
	"E122": {
		Category:   CategoryConfig,
		Message:    "Invalid environment override",
		Detail:     "An OUTLET_* environment variable could not be parsed into its field type.",
		Suggestion: "Boolean variables accept true/false, numbers must be integers",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E141": {
		Category:   CategoryCLI,
		Message:    "Not an outlet project",
		Detail:     "No outlet.json was found in the current directory or its parents.",
		Suggestion: "Run the command from the project root or pass --config",
	},
	"E148": {
		Category:   CategoryCLI,
		Message:    "Invalid route file",
		Detail:     "Route files are JSON or TOML documents with a top-level routes list. Each route has a path and optional name and children.",
		Suggestion: "Check the keys against: path, name, children",
	},
	"E149": {
		Category: CategoryCLI,
		Message:  "Invalid query",
		Detail:   "Pass either a URL starting with '/' or a route name with key=value parameters.",
	},

	// ============================================
	// Storage Errors (E160-E179)
	// ============================================

	"E160": {
		Category:   CategoryStorage,
		Message:    "Storage backend unavailable",
		Detail:     "The configured storage backend could not be opened.",
		Suggestion: "Check storage.backend and its connection settings in outlet.json",
	},
	"E161": {
		Category: CategoryStorage,
		Message:  "Storage is closed",
	},
}

// Classify maps a library error onto its registered code. Unknown errors
// are wrapped under fallback.
func Classify(err error, fallback string) *OutletError {
	if err == nil {
		return nil
	}
	var oe *OutletError
	if stderrors.As(err, &oe) {
		return oe
	}

	var (
		dup      *route.DuplicateRouteError
		unkURL   *route.UnknownURLError
		unkName  *route.UnknownNameError
		parseErr toml.ParseError
	)
	switch {
	case stderrors.As(err, &dup):
		return New("E104").Wrap(err).WithDetailf("%s %q is declared twice", dup.Identifier, dup.Value)
	case stderrors.As(err, &unkURL):
		return New("E100").Wrap(err).WithDetailf("%q matched none of: %v", unkURL.URL, unkURL.Known)
	case stderrors.As(err, &unkName):
		return New("E105").Wrap(err)
	case stderrors.Is(err, outlet.ErrNoRouter):
		return New("E106").Wrap(err)
	case stderrors.Is(err, outlet.ErrNoConstructor):
		return New("E107").Wrap(err)
	case stderrors.As(err, &parseErr):
		return New("E148").Wrap(err).WithDetail(parseErr.Message)
	case stderrors.Is(err, storage.ErrStoreClosed):
		return New("E161").Wrap(err)
	}
	return New(fallback).Wrap(err)
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
