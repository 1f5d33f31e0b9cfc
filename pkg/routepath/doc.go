// Package routepath holds the path arithmetic shared by the route table
// compiler and the query matcher.
//
// Route paths are stored without a leading-slash requirement: "users",
// "/users" and "users/:id" are all valid declarations. Fusion of a parent
// and child path collapses repeated slashes and strips one trailing slash,
// keeping "/" intact:
//
//	Join("", "/")          → "/"
//	Join("/users", "")     → "/users"
//	Join("/users", ":id")  → "/users/:id"
//	Join("/", "settings")  → "/settings"
//
// Segmentation strips leading and trailing slashes before splitting, so the
// root path always yields a single empty segment:
//
//	Segments("/")          → [""]
//	Segments("/a/b/")      → ["a", "b"]
package routepath
