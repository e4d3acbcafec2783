package model

// Tool names bound to workflow steps.
const (
	ToolOverpassAPI = "OSM Overpass API"
	ToolGeoPandas   = "GeoPandas"
	ToolPostGIS     = "PostGIS"
	ToolQGISFolium  = "QGIS + Folium"
)

// DataSourceOSM is the data source contributed by acquisition steps.
const DataSourceOSM = "OpenStreetMap"

// EstimatedTimeDefault is the display string attached by the template strategy.
const EstimatedTimeDefault = "2-5 minutes"

// CanonicalTools is the fixed tools listing the template strategy attaches to
// every workflow, independent of which steps were actually built.
func CanonicalTools() []string {
	return []string{"OSM API", "GeoPandas", "PostGIS", "QGIS", "Folium"}
}

// Step is one unit of an executable GIS plan: an action, the tool that would
// perform it, and its parameters. Step numbers are fixed literals assigned by
// the rule table, so a workflow may carry non-contiguous numbering.
type Step struct {
	Step       int            `json:"step"`
	Action     string         `json:"action"`
	Tool       string         `json:"tool"`
	Parameters map[string]any `json:"parameters"`
}

// Workflow is an ordered GIS plan. Built fresh per request; immutable once
// returned. Steps reflect construction order: data acquisition before spatial
// operations before analysis/output.
type Workflow struct {
	Steps         []Step   `json:"steps"`
	Tools         []string `json:"tools"`
	DataSources   []string `json:"data_sources"`
	EstimatedTime string   `json:"estimated_time,omitempty"`
}
