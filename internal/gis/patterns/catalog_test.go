package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Categories(t *testing.T) {
	c := Default()

	require.NotEmpty(t, c.SpatialOperations)
	require.NotEmpty(t, c.Objects)
	require.NotEmpty(t, c.Locations)
	require.NotEmpty(t, c.AnalysisTypes)

	// catalog order is significant: the "within distance" pattern must be
	// tried before the generic proximity words
	assert.Contains(t, c.SpatialOperations[0].Source, "within")
}

func TestPattern_Label(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{`school[s]?`, "school"},
		{`hospital[s]?`, "hospital"},
		{`forest[s]?`, "forest"},
		{`city|cities`, "city|cities"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, mustPattern(tt.source).Label())
		})
	}
}

func TestPattern_CaseInsensitive(t *testing.T) {
	p := mustPattern(`Mumbai`)

	assert.True(t, p.Match("schools in MUMBAI"))
	assert.True(t, p.Match("schools in mumbai"))
	assert.Equal(t, "mumbai", p.Find("schools in mumbai"))
	assert.Equal(t, "MUMBAI", p.Find("schools in MUMBAI"))
}
