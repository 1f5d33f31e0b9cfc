package router

import "github.com/vango-dev/outlet/pkg/route"

// Updater is the host's redraw primitive.
type Updater interface {
	RequestUpdate()
}

// View is the root outlet a router drives.
type View interface {
	Updater

	// SetRoute hands the view a newly resolved route.
	SetRoute(r *route.Normalized)
}

// ResolveFunc observes every route a router receives.
type ResolveFunc func(r *route.Normalized)
