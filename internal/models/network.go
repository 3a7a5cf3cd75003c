package models

// RelationType labels an edge in the organization network.
type RelationType string

const (
	RelationSubsidiary   RelationType = "subsidiary"
	RelationParent       RelationType = "parent"
	RelationJointVenture RelationType = "joint_venture"
	RelationPartnership  RelationType = "partnership"
	RelationCompetitor   RelationType = "competitor"
)

// NetworkNode is one organization visited during network mapping.
type NetworkNode struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Industry  IndustryClassification `json:"industry"`
	Level     int                    `json:"level"`
	Influence int                    `json:"influence"`
}

// NetworkEdge is one declared relationship between two organizations.
type NetworkEdge struct {
	Source string       `json:"source"`
	Target string       `json:"target"`
	Type   RelationType `json:"type"`
	Weight float64      `json:"weight"`
}

// IndustryCluster is a coarse grouping of visited nodes by primary
// industry. This is industry grouping, not graph community detection.
type IndustryCluster struct {
	Industry string   `json:"industry"`
	Members  []string `json:"members"`
	Size     int      `json:"size"`
}

// NetworkMap is the result of a bounded breadth-first traversal of an
// organization's declared relationships.
type NetworkMap struct {
	RootID   string            `json:"root_id"`
	Depth    int               `json:"depth"`
	Nodes    []NetworkNode     `json:"nodes"`
	Edges    []NetworkEdge     `json:"edges"`
	Clusters []IndustryCluster `json:"clusters"`
}

// Connection is one direct relationship from an entity.
type Connection struct {
	EntityID string       `json:"entity_id"`
	Type     RelationType `json:"type"`
	Weight   float64      `json:"weight"`
}

// InfluenceReport is the influence score with its factor breakdown.
type InfluenceReport struct {
	EntityID string         `json:"entity_id"`
	Score    int            `json:"influence_score"`
	Factors  map[string]int `json:"factors"`
}
