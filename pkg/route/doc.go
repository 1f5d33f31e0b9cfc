// Package route compiles nested route declarations into a flat table and
// matches navigation queries against it.
//
// # Declaring routes
//
// Routes form a tree. Only leaves become table entries; inner nodes
// contribute their path prefix, their name (deeper names win) and their
// hooks, and they stay in each leaf's ancestor chain so nested outlets can
// render them at their depth:
//
//	table, err := route.Compile([]*route.Definition{
//	    {Path: "/", Name: "home", Component: route.Sync(NewHome)},
//	    {Path: "/users", Name: "users", Component: route.Sync(NewUsers), Children: []*route.Definition{
//	        {Path: ""},
//	        {Path: ":id", Name: "user-detail", Component: route.Async(loadUserDetail)},
//	    }},
//	    {Path: "*", Name: "not-found", Render: notFound},
//	})
//
// # Matching
//
// Queries are either URLs or a name plus parameters:
//
//	r, err := table.Match(route.URL("/users/5"))
//	// r.Path == "users/:id", r.Name == "user-detail", r.Params["id"] == "5"
//
//	r, err = table.Match(route.Named("user-detail", route.Params{"id": "7"}))
//	// r.URL == "/users/7"
//
// Entries are tried in declaration order and the first that matches wins.
// There is no specificity ranking: declare "*" after the routes it should
// not shadow.
//
// Every successful match returns a fresh *Normalized; table entries are
// never mutated, so a held result stays valid across later navigations.
package route
