package models

import "time"

// EnrichmentStatus tracks how complete a profile's derived fields are.
type EnrichmentStatus string

const (
	EnrichmentPartial  EnrichmentStatus = "partial"
	EnrichmentComplete EnrichmentStatus = "complete"
)

// IsValid returns true if the enrichment status is recognized.
func (es EnrichmentStatus) IsValid() bool {
	return es == EnrichmentPartial || es == EnrichmentComplete
}

// IntelligenceType names one of the append-only intelligence lists on a profile.
type IntelligenceType string

const (
	IntelNarrativeThemes    IntelligenceType = "narrative_themes"
	IntelRecentDevelopments IntelligenceType = "recent_developments"
	IntelUpcomingCatalysts  IntelligenceType = "upcoming_catalysts"
	IntelRiskFactors        IntelligenceType = "risk_factors"
	IntelOpportunities      IntelligenceType = "opportunities"
	IntelCascadeTriggers    IntelligenceType = "cascade_triggers"
)

// ValidIntelligenceTypes is the set of all valid intelligence list names.
var ValidIntelligenceTypes = []IntelligenceType{
	IntelNarrativeThemes,
	IntelRecentDevelopments,
	IntelUpcomingCatalysts,
	IntelRiskFactors,
	IntelOpportunities,
	IntelCascadeTriggers,
}

// IsValid returns true if the intelligence type is recognized.
func (it IntelligenceType) IsValid() bool {
	for i := range ValidIntelligenceTypes {
		if it == ValidIntelligenceTypes[i] {
			return true
		}
	}
	return false
}

// IndustryClassification is the result of classifying an organization
// against the static industry taxonomy.
type IndustryClassification struct {
	Primary       string   `json:"primary"`
	Secondary     []string `json:"secondary"`
	Subcategories []string `json:"subcategories"`
}

// OrgMetadata holds descriptive facts about an organization. Scalar
// fields are overwritten only by explicit updates, never by enrichment.
type OrgMetadata struct {
	FoundedYear   int               `json:"founded_year,omitempty"`
	Headquarters  string            `json:"headquarters,omitempty"`
	EmployeeCount int               `json:"employee_count,omitempty"`
	Revenue       string            `json:"revenue,omitempty"`
	Ownership     string            `json:"ownership,omitempty"` // "public" or "private"
	Website       string            `json:"website,omitempty"`
	SocialHandles map[string]string `json:"social_handles,omitempty"`
}

// Stakeholders are the named parties tracked around an organization.
// Entries are display names or entity ids.
type Stakeholders struct {
	Executives      []string `json:"executives,omitempty"`
	BoardMembers    []string `json:"board_members,omitempty"`
	MajorInvestors  []string `json:"major_investors,omitempty"`
	KeyCustomers    []string `json:"key_customers,omitempty"`
	MainCompetitors []string `json:"main_competitors,omitempty"`
	Regulators      []string `json:"regulators,omitempty"`
	MediaOutlets    []string `json:"media_outlets,omitempty"`
	ActivistGroups  []string `json:"activist_groups,omitempty"`
}

// MonitoringConfig controls what gets watched for an organization.
type MonitoringConfig struct {
	Keywords          []string `json:"keywords,omitempty"`
	Feeds             []string `json:"feeds,omitempty"`
	Endpoints         []string `json:"endpoints,omitempty"`
	RegulatoryFilings bool     `json:"regulatory_filings"`
	ExecutiveChanges  bool     `json:"executive_changes"`
	MAActivity        bool     `json:"ma_activity"`
	CrisisIndicators  []string `json:"crisis_indicators,omitempty"`
}

// Intelligence holds the append-only intelligence lists. Entries are
// only ever added through the update-intelligence operation.
type Intelligence struct {
	NarrativeThemes    []string `json:"narrative_themes,omitempty"`
	RecentDevelopments []string `json:"recent_developments,omitempty"`
	UpcomingCatalysts  []string `json:"upcoming_catalysts,omitempty"`
	RiskFactors        []string `json:"risk_factors,omitempty"`
	Opportunities      []string `json:"opportunities,omitempty"`
	CascadeTriggers    []string `json:"cascade_triggers,omitempty"`
}

// List returns a pointer to the list named by it, or nil for an
// unrecognized type.
func (in *Intelligence) List(it IntelligenceType) *[]string {
	switch it {
	case IntelNarrativeThemes:
		return &in.NarrativeThemes
	case IntelRecentDevelopments:
		return &in.RecentDevelopments
	case IntelUpcomingCatalysts:
		return &in.UpcomingCatalysts
	case IntelRiskFactors:
		return &in.RiskFactors
	case IntelOpportunities:
		return &in.Opportunities
	case IntelCascadeTriggers:
		return &in.CascadeTriggers
	}
	return nil
}

// Relationships are the declared links from one organization to others,
// each entry an entity id.
type Relationships struct {
	Subsidiaries          []string `json:"subsidiaries,omitempty"`
	JointVentures         []string `json:"joint_ventures,omitempty"`
	StrategicPartnerships []string `json:"strategic_partnerships,omitempty"`
}

// EntityProfile is the canonical record for an organization tracked by
// the service. The id is a pure function of the name (slug.Make) and is
// the store's primary key. Profiles are permanent ledger nodes: there is
// no delete path. Version supports optimistic concurrency on updates.
type EntityProfile struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Aliases          []string               `json:"aliases,omitempty"`
	Industry         IndustryClassification `json:"industry"`
	Metadata         OrgMetadata            `json:"metadata"`
	Stakeholders     Stakeholders           `json:"stakeholders"`
	Monitoring       MonitoringConfig       `json:"monitoring_config"`
	Intelligence     Intelligence           `json:"intelligence"`
	Relationships    Relationships          `json:"relationships"`
	LastUpdated      time.Time              `json:"last_updated"`
	EnrichmentStatus EnrichmentStatus       `json:"enrichment_status"`
	Version          int64                  `json:"version"`
}

// Clone returns a deep copy of the profile so that callers can mutate
// the result without affecting cached or stored state.
func (p *EntityProfile) Clone() *EntityProfile {
	cp := *p
	cp.Aliases = copyStrings(p.Aliases)
	cp.Industry.Secondary = copyStrings(p.Industry.Secondary)
	cp.Industry.Subcategories = copyStrings(p.Industry.Subcategories)
	if len(p.Metadata.SocialHandles) > 0 {
		handles := make(map[string]string, len(p.Metadata.SocialHandles))
		for k, v := range p.Metadata.SocialHandles {
			handles[k] = v
		}
		cp.Metadata.SocialHandles = handles
	}
	cp.Stakeholders = Stakeholders{
		Executives:      copyStrings(p.Stakeholders.Executives),
		BoardMembers:    copyStrings(p.Stakeholders.BoardMembers),
		MajorInvestors:  copyStrings(p.Stakeholders.MajorInvestors),
		KeyCustomers:    copyStrings(p.Stakeholders.KeyCustomers),
		MainCompetitors: copyStrings(p.Stakeholders.MainCompetitors),
		Regulators:      copyStrings(p.Stakeholders.Regulators),
		MediaOutlets:    copyStrings(p.Stakeholders.MediaOutlets),
		ActivistGroups:  copyStrings(p.Stakeholders.ActivistGroups),
	}
	cp.Monitoring.Keywords = copyStrings(p.Monitoring.Keywords)
	cp.Monitoring.Feeds = copyStrings(p.Monitoring.Feeds)
	cp.Monitoring.Endpoints = copyStrings(p.Monitoring.Endpoints)
	cp.Monitoring.CrisisIndicators = copyStrings(p.Monitoring.CrisisIndicators)
	cp.Intelligence = Intelligence{
		NarrativeThemes:    copyStrings(p.Intelligence.NarrativeThemes),
		RecentDevelopments: copyStrings(p.Intelligence.RecentDevelopments),
		UpcomingCatalysts:  copyStrings(p.Intelligence.UpcomingCatalysts),
		RiskFactors:        copyStrings(p.Intelligence.RiskFactors),
		Opportunities:      copyStrings(p.Intelligence.Opportunities),
		CascadeTriggers:    copyStrings(p.Intelligence.CascadeTriggers),
	}
	cp.Relationships = Relationships{
		Subsidiaries:          copyStrings(p.Relationships.Subsidiaries),
		JointVentures:         copyStrings(p.Relationships.JointVentures),
		StrategicPartnerships: copyStrings(p.Relationships.StrategicPartnerships),
	}
	return &cp
}

func copyStrings(src []string) []string {
	if len(src) == 0 {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}
