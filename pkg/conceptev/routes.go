package conceptev

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// ErrUnknownRoute is returned when a route is not part of the API's route set.
var ErrUnknownRoute = errors.New("unknown route")

// Route is an endpoint path template of the ConceptEV API.
//
// Only the routes declared below are legal. Use ParseRoute to turn user
// input into a Route.
type Route string

// Resource collections.
const (
	RouteArchitectures  Route = "/architectures"
	RouteComponents     Route = "/components"
	RouteConfigurations Route = "/configurations"
	RouteRequirements   Route = "/requirements"
	RouteJobs           Route = "/jobs"
	RouteConcepts       Route = "/concepts"
	RouteDriveCycles    Route = "/drive_cycles"
	RouteHealth         Route = "/health"
)

// Verb routes.
const (
	RouteComponentsFromFile           Route = "/components:from_file"
	RouteComponentsUpload             Route = "/components:upload"
	RouteComponentsCalculateLossMap   Route = "/components:calculate_loss_map"
	RouteConfigurationsCalculateForce Route = "/configurations:calculate_forces"
	RouteRequirementsCalculateExample Route = "/requirements:calculate_examples"
	RouteJobsStart                    Route = "/jobs:start"
	RouteJobsStatus                   Route = "/jobs:status"
	RouteJobsResult                   Route = "/jobs:result"
	RouteDriveCyclesFromFile          Route = "/drive_cycles:from_file"
	RouteDataFormatVersion            Route = "/utilities:data_format_version"
)

var knownRoutes = map[Route]struct{}{
	RouteArchitectures:                {},
	RouteComponents:                   {},
	RouteConfigurations:               {},
	RouteRequirements:                 {},
	RouteJobs:                         {},
	RouteConcepts:                     {},
	RouteDriveCycles:                  {},
	RouteHealth:                       {},
	RouteComponentsFromFile:           {},
	RouteComponentsUpload:             {},
	RouteComponentsCalculateLossMap:   {},
	RouteConfigurationsCalculateForce: {},
	RouteRequirementsCalculateExample: {},
	RouteJobsStart:                    {},
	RouteJobsStatus:                   {},
	RouteJobsResult:                   {},
	RouteDriveCyclesFromFile:          {},
	RouteDataFormatVersion:            {},
}

// Routes returns every known route in lexical order.
func Routes() []Route {
	routes := make([]Route, 0, len(knownRoutes))
	for r := range knownRoutes {
		routes = append(routes, r)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i] < routes[j] })
	return routes
}

// ParseRoute validates s as a route. A missing leading slash is tolerated.
func ParseRoute(s string) (Route, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	r := Route(s)
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

// Validate returns ErrUnknownRoute if r is not a known route.
func (r Route) Validate() error {
	if _, ok := knownRoutes[r]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRoute, string(r))
	}
	return nil
}

// WithVerb returns the verb route "<r>:<verb>", e.g. "/components:from_file".
func (r Route) WithVerb(verb string) (Route, error) {
	if strings.Contains(string(r), ":") {
		return "", fmt.Errorf("route %q already has a verb", string(r))
	}
	return ParseRoute(string(r) + ":" + verb)
}

// Path returns the request path for r, with the escaped id appended as a
// path segment when id is not empty.
func (r Route) Path(id string) string {
	if id == "" {
		return string(r)
	}
	return string(r) + "/" + url.PathEscape(id)
}

func (r Route) String() string {
	return string(r)
}
