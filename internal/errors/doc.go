// Package errors provides coded, actionable diagnostics for the outlet
// CLI and configuration loader.
//
// Library packages return plain typed errors (route.DuplicateRouteError,
// outlet.LoadError, ...). At the CLI boundary Classify maps them onto a
// registered code so the user sees a stable identifier, an explanation
// and a hint:
//
//	err := errors.New("E148").
//	    WithLocation("routes.toml", 12, 3).
//	    WithSuggestion("Route tables use [[routes]] with path, name and children keys")
//
//	errors.PrintError(err)
//	// ERROR E148: Invalid route file
//	//
//	//   routes.toml:12:3
//	//   ...
//
// # Error Codes
//
//   - E100-E119: routing (unknown URL or name, duplicate routes, outlets)
//   - E120-E139: configuration
//   - E140-E159: CLI and project files
//   - E160-E179: storage backends
package errors
