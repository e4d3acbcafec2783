package parsers

import (
	"regexp"

	"github.com/GeoFlow-core-poc-v1/server/internal/gis/model"
	"github.com/GeoFlow-core-poc-v1/server/internal/gis/patterns"
	logx "github.com/GeoFlow-core-poc-v1/server/pkg/logger"
)

// distanceRe extracts a `<number><unit>` token independent of the category
// patterns. The numeric string and unit are recorded verbatim, no unit
// normalization.
var distanceRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(km|m|miles?)`)

// QueryParser extracts structured intent from free-text geospatial queries.
// It is a pure function of its input text and the injected catalog: safe for
// concurrent use, no mutable shared state.
type QueryParser struct {
	catalog *patterns.Catalog
}

func NewQueryParser(catalog *patterns.Catalog) *QueryParser {
	if catalog == nil {
		catalog = patterns.Default()
	}
	return &QueryParser{catalog: catalog}
}

// Parse turns a raw query into a fully populated ParsedQuery. Every field is
// always present: sentinel defaults cover operation, location and analysis
// type, so any input string (including empty) yields a valid result and this
// never fails.
func (p *QueryParser) Parse(query string) model.ParsedQuery {
	parsed := model.ParsedQuery{
		OriginalQuery:    query,
		SpatialOperation: p.extractSpatialOperation(query),
		TargetObjects:    p.extractObjects(query),
		Location:         p.extractLocation(query),
		AnalysisType:     p.extractAnalysisType(query),
		Parameters:       extractParameters(query),
	}

	logx.Debug().
		Str("component", "query_parser").
		Str("spatial_operation", parsed.SpatialOperation).
		Strs("target_objects", parsed.TargetObjects).
		Str("location", parsed.Location).
		Str("analysis_type", parsed.AnalysisType).
		Msg("query parsed")

	return parsed
}

// extractSpatialOperation returns the pattern source of the first matching
// spatial-operation pattern.
func (p *QueryParser) extractSpatialOperation(query string) string {
	for _, pat := range p.catalog.SpatialOperations {
		if pat.Match(query) {
			return pat.Source
		}
	}
	return model.DefaultSpatialOperation
}

// extractObjects collects a normalized label for every matching object
// pattern, preserving catalog order. Unlike the other categories this is not
// first-match-wins: all matching patterns contribute.
func (p *QueryParser) extractObjects(query string) []string {
	objects := []string{}
	for _, pat := range p.catalog.Objects {
		if pat.Match(query) {
			objects = append(objects, pat.Label())
		}
	}
	return objects
}

// extractLocation returns the matched substring of the first matching
// location pattern, preserving its casing as it appears in the query.
func (p *QueryParser) extractLocation(query string) string {
	for _, pat := range p.catalog.Locations {
		if m := pat.Find(query); m != "" {
			return m
		}
	}
	return model.DefaultLocation
}

func (p *QueryParser) extractAnalysisType(query string) string {
	for _, pat := range p.catalog.AnalysisTypes {
		if pat.Match(query) {
			return pat.Source
		}
	}
	return model.DefaultAnalysisType
}

func extractParameters(query string) map[string]string {
	params := map[string]string{}
	if m := distanceRe.FindStringSubmatch(query); m != nil {
		params[model.ParamDistance] = m[1]
		params[model.ParamUnit] = m[2]
	}
	return params
}
