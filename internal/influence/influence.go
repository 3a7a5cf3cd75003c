// Package influence scores an organization's market and regulatory weight.
package influence

import (
	"strings"

	"github.com/praxis-pr/entity-intel/internal/models"
)

const (
	revenueBillionPoints = 30
	revenueMillionPoints = 10
	publicCompanyPoints  = 20
	perMediaOutletPoints = 5
	perRegulatorPoints   = 10
	maxScore             = 100
)

// Score computes the 0..100 influence score for a profile. It is a pure
// function of the profile's metadata and stakeholder counts: revenue
// scale, public listing, media coverage and regulatory attention.
func Score(p *models.EntityProfile) int {
	score := 0
	for _, points := range factors(p) {
		score += points
	}
	if score > maxScore {
		score = maxScore
	}
	if score < 0 {
		score = 0
	}
	return score
}

// Report returns the influence score together with its factor breakdown.
func Report(p *models.EntityProfile) *models.InfluenceReport {
	return &models.InfluenceReport{
		EntityID: p.ID,
		Score:    Score(p),
		Factors:  factors(p),
	}
}

func factors(p *models.EntityProfile) map[string]int {
	f := map[string]int{
		"revenue_scale":        revenuePoints(p.Metadata.Revenue),
		"public_listing":       0,
		"media_coverage":       perMediaOutletPoints * len(p.Stakeholders.MediaOutlets),
		"regulatory_attention": perRegulatorPoints * len(p.Stakeholders.Regulators),
	}
	if p.Metadata.Ownership == "public" {
		f["public_listing"] = publicCompanyPoints
	}
	return f
}

func revenuePoints(revenue string) int {
	lower := strings.ToLower(revenue)
	switch {
	case strings.Contains(lower, "billion"):
		return revenueBillionPoints
	case strings.Contains(lower, "million"):
		return revenueMillionPoints
	}
	return 0
}
