package route

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is checks.
var (
	ErrDuplicateRoute = errors.New("duplicate route")
	ErrUnknownURL     = errors.New("unknown url")
	ErrUnknownName    = errors.New("unknown route name")
)

// DuplicateRouteError reports two table entries sharing a path or a name.
type DuplicateRouteError struct {
	// Identifier is "path" or "name".
	Identifier string
	Value      string
}

func (e *DuplicateRouteError) Error() string {
	return fmt.Sprintf("duplicated identifiers '%s' = '%s'", e.Identifier, e.Value)
}

func (e *DuplicateRouteError) Is(target error) bool {
	return target == ErrDuplicateRoute
}

// UnknownURLError reports a URL no table entry matches.
type UnknownURLError struct {
	URL   string
	Known []string
}

func (e *UnknownURLError) Error() string {
	return fmt.Sprintf("could not find route with url '%s' in [%s]", e.URL, strings.Join(e.Known, ", "))
}

func (e *UnknownURLError) Is(target error) bool {
	return target == ErrUnknownURL
}

// UnknownNameError reports a name query no table entry satisfies.
type UnknownNameError struct {
	Name string
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("could not find route with name '%s'", e.Name)
}

func (e *UnknownNameError) Is(target error) bool {
	return target == ErrUnknownName
}
