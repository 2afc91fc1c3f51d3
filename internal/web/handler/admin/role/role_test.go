package role

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rolecontroller "github.com/GoCadetAdmin/GoCadetAdmin/internal/db/controller/role"
)

func TestUpdateFlashTarget(t *testing.T) {
	testCases := []struct {
		name     string
		result   rolecontroller.UpdateResult
		expected string
	}{
		{
			name:     "applied only",
			result:   rolecontroller.UpdateResult{Applied: 3},
			expected: "3 permission(s) applied",
		},
		{
			name: "skipped unknown names listed",
			result: rolecontroller.UpdateResult{
				Applied:        2,
				SkippedUnknown: []string{"fly_helicopters", "launch_rockets"},
			},
			expected: "2 permission(s) applied, skipped unknown: fly_helicopters, launch_rockets",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			target := updateFlashTarget(&tc.result)

			// the Location header value must not carry raw spaces or commas
			assert.NotContains(t, target, " ")
			assert.NotContains(t, target, ",")

			parsed, err := url.Parse(target)
			require.NoError(t, err)
			assert.Equal(t, Path, parsed.Path)
			assert.Equal(t, tc.expected, parsed.Query().Get("flash"))
		})
	}
}
