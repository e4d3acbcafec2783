// Package builder implements the deterministic template strategy: a closed
// rule table that expands a parsed query into an ordered GIS workflow. The
// rules are independent conditionals applied in a fixed order, not a general
// planner; extending coverage means adding a branch.
package builder

import (
	"fmt"
	"strings"

	"github.com/GeoFlow-core-poc-v1/server/internal/gis/model"
)

const (
	labelSchool   = "school"
	labelHospital = "hospital"
)

// fallbackDistance is used for the buffer step when the query carried no
// explicit distance token.
const fallbackDistance = "1km"

// BuildTemplateWorkflow produces the template workflow for a parsed query.
// Step numbers are fixed literals per rule, so the sequence may carry gaps
// when earlier rules did not fire. The tools listing is the canonical fixed
// set regardless of which steps were built.
func BuildTemplateWorkflow(parsed *model.ParsedQuery) *model.Workflow {
	wf := &model.Workflow{
		Steps:         []model.Step{},
		Tools:         []string{},
		DataSources:   []string{},
		EstimatedTime: model.EstimatedTimeDefault,
	}

	// Data acquisition
	if parsed.HasTarget(labelSchool) {
		wf.Steps = append(wf.Steps, model.Step{
			Step:   1,
			Action: "Acquire school location data",
			Tool:   model.ToolOverpassAPI,
			Parameters: map[string]any{
				"amenity":  "school",
				"location": parsed.Location,
			},
		})
		wf.DataSources = append(wf.DataSources, model.DataSourceOSM)
	}

	if parsed.HasTarget(labelHospital) {
		wf.Steps = append(wf.Steps, model.Step{
			Step:   2,
			Action: "Acquire hospital location data",
			Tool:   model.ToolOverpassAPI,
			Parameters: map[string]any{
				"amenity":  "hospital",
				"location": parsed.Location,
			},
		})
	}

	// Spatial operation. This checks the selected pattern source, not the raw
	// query, so it only fires when the catalog's "within ... km|m|miles"
	// pattern was the one that matched.
	if strings.Contains(parsed.SpatialOperation, "within") {
		distance := parsed.Parameters[model.ParamDistance]
		if distance == "" {
			distance = fallbackDistance
		}
		wf.Steps = append(wf.Steps, model.Step{
			Step:   3,
			Action: fmt.Sprintf("Create %s buffer around hospitals", distance),
			Tool:   model.ToolGeoPandas,
			Parameters: map[string]any{
				"distance": distance,
				"unit":     "km",
			},
		})

		wf.Steps = append(wf.Steps, model.Step{
			Step:   4,
			Action: "Find schools within buffer zones",
			Tool:   model.ToolPostGIS,
			Parameters: map[string]any{
				"operation": "spatial_intersect",
			},
		})
	}

	// Analysis and output
	wf.Steps = append(wf.Steps, model.Step{
		Step:   5,
		Action: "Generate result map and statistics",
		Tool:   model.ToolQGISFolium,
		Parameters: map[string]any{
			"output_format": []string{"map", "geojson", "csv"},
		},
	})

	wf.Tools = model.CanonicalTools()

	return wf
}
