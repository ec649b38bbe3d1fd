package conceptev

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoute(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Route
		wantErr bool
	}{
		{name: "collection", input: "/configurations", want: RouteConfigurations},
		{name: "verb", input: "/jobs:result", want: RouteJobsResult},
		{name: "missing slash", input: "requirements", want: RouteRequirements},
		{name: "typo", input: "/configuration", wantErr: true},
		{name: "unknown verb", input: "/jobs:cancel", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRoute(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownRoute))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoute_WithVerb(t *testing.T) {
	r, err := RouteComponents.WithVerb("from_file")
	require.NoError(t, err)
	assert.Equal(t, RouteComponentsFromFile, r)

	r, err = RouteDriveCycles.WithVerb("from_file")
	require.NoError(t, err)
	assert.Equal(t, RouteDriveCyclesFromFile, r)

	_, err = RouteConfigurations.WithVerb("from_file")
	assert.ErrorIs(t, err, ErrUnknownRoute)

	_, err = RouteJobsStart.WithVerb("result")
	assert.Error(t, err)
}

func TestRoute_Path(t *testing.T) {
	assert.Equal(t, "/configurations", RouteConfigurations.Path(""))
	assert.Equal(t, "/configurations/456", RouteConfigurations.Path("456"))
	assert.Equal(t, "/concepts/a%2Fb", RouteConcepts.Path("a/b"))
}

func TestRoutes(t *testing.T) {
	routes := Routes()
	assert.Len(t, routes, len(knownRoutes))
	for _, r := range routes {
		assert.NoError(t, r.Validate())
	}
	assert.Contains(t, routes, RouteDataFormatVersion)
}
