// Package inspect serves a debugging HTTP surface for a running router.
//
// Endpoints:
//
//	GET  /routes            compiled route table
//	GET  /match?url=/a/b    resolve a URL without navigating
//	GET  /match?name=user&param=id:5
//	GET  /current           the route currently displayed (204 when none)
//	POST /navigate          {"path": "/users/5"} or {"name": "user", "params": {"id": "5"}}
//	GET  /history           websocket bridging a browser's history (see history.Socket)
//	GET  /metrics           Prometheus exposition
//
// Navigations requested over HTTP are posted onto the router's dispatcher
// and the handler waits for them to complete, so the UI turn stays the only
// writer of navigation state.
//
// Usage:
//
//	relay := history.NewRelay()
//	r, _ := router.New(router.Config{Config: resolver.Config{
//	    Routes: defs, UseHistory: true, History: relay,
//	}})
//	srv := inspect.New(r, inspect.WithRelay(relay), inspect.WithDispatcher(l))
//	http.ListenAndServe("localhost:3000", srv)
package inspect
