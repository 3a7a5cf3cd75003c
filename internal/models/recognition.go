package models

// EntityCategory names one of the recognized entity categories.
type EntityCategory string

const (
	CategoryOrganizations EntityCategory = "organizations"
	CategoryPeople        EntityCategory = "people"
	CategoryLocations     EntityCategory = "locations"
	CategoryProducts      EntityCategory = "products"
	CategoryEvents        EntityCategory = "events"
)

// ValidEntityCategories is the set of all valid entity categories.
var ValidEntityCategories = []EntityCategory{
	CategoryOrganizations,
	CategoryPeople,
	CategoryLocations,
	CategoryProducts,
	CategoryEvents,
}

// IsValid returns true if the entity category is recognized.
func (ec EntityCategory) IsValid() bool {
	for i := range ValidEntityCategories {
		if ec == ValidEntityCategories[i] {
			return true
		}
	}
	return false
}

// Recognition is the categorized output of entity recognition over a
// piece of text. Locations, products and events are reserved extension
// points: no matcher populates them yet, so they are always empty.
// Confidence maps each recognized entity to a placeholder score in
// [0.70, 1.0).
type Recognition struct {
	Organizations []string           `json:"organizations"`
	People        []string           `json:"people"`
	Locations     []string           `json:"locations"`
	Products      []string           `json:"products"`
	Events        []string           `json:"events"`
	Confidence    map[string]float64 `json:"confidence"`
}

// Prediction is a rule-based behavior forecast for an entity under a
// hypothetical scenario. The shape is a stub contract: it must survive
// even if the heuristic internals are replaced by a real model.
type Prediction struct {
	EntityID            string   `json:"entity_id"`
	LikelyReaction      string   `json:"likely_reaction"`
	Probability         float64  `json:"probability"`
	KeyFactors          []string `json:"key_factors"`
	RecommendedApproach string   `json:"recommended_approach"`
}

// ScoredMatch is one candidate entity scored against an organization.
type ScoredMatch struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// MatchResult buckets candidate entities by how well they match an
// organization's name, aliases and keywords.
type MatchResult struct {
	OrganizationID   string        `json:"organization_id"`
	StrongMatches    []ScoredMatch `json:"strong_matches"`
	PotentialMatches []ScoredMatch `json:"potential_matches"`
	NoMatch          []ScoredMatch `json:"no_match"`
}
