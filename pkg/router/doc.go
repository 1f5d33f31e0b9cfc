// Package router connects a navigation state to a tree of outlets.
//
// A Router wraps one *resolver.Resolver. It forwards every resolved route
// to its root view, asks its host for a redraw and notifies OnResolve
// listeners. Several routers may share one resolver (WithResolver); a
// router registered as a sub-router navigates relative to the route its
// parent was on at registration time.
//
// # Usage
//
//	r, err := router.New(router.Config{
//	    Config: resolver.Config{
//	        Routes: []*route.Definition{
//	            {Path: "/", Name: "home", Component: route.Sync(NewHome)},
//	            {Path: "/users", Component: route.Sync(NewUsers), Children: []*route.Definition{
//	                {Path: ":id", Name: "user", Component: route.Async(loadUser)},
//	            }},
//	        },
//	        UseHistory: true,
//	        History:    history.NewMemory("/"),
//	    },
//	    Location: "/users/5",
//	}, router.WithHost(app))
//
//	r.Push(route.Named("user", route.Params{"id": "7"}))
//	r.Navigate("/users", router.WithParams(map[string]any{"page": 2}))
package router
