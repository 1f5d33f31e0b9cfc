// Package outlet renders the fragments of a resolved route.
//
// An Outlet is a display region inside a host component. The root outlet
// of a router renders the first fragment of the current route's chain;
// an outlet nested inside that fragment's component renders the second,
// and so on. When only a deeper fragment changes, the outer outlets hand
// the route down without re-rendering.
//
// # Lifecycle
//
//	Unattached -> Attached -> Rendered
//	                       -> Loading -> Rendered | Failed
//
// Attach finds the governing router, either the one given with WithRouter
// or the one of the nearest ancestor outlet found through Node.ParentNode.
// Async components are loaded off the UI loop; completion is posted back
// through the outlet's loop.Dispatcher and the loaded constructor is kept
// in a shared Cache.
//
// All Outlet methods must be called from the UI loop.
package outlet
