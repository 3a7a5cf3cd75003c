// Package taxonomy classifies organizations against a static industry
// table and derives industry-specific crisis indicators.
package taxonomy

import (
	"log/slog"
	"strings"

	"github.com/praxis-pr/entity-intel/internal/models"
)

// Industry is one entry in the static taxonomy.
type Industry struct {
	Name          string
	Subcategories []string
	Keywords      []string
}

// Industries is the taxonomy in declaration order. Classification
// tie-breaks are "first declared industry wins", which callers depend
// on; do not reorder.
var Industries = []Industry{
	{
		Name:          "technology",
		Subcategories: []string{"software", "hardware", "cloud_services", "artificial_intelligence", "cybersecurity"},
		Keywords:      []string{"tech", "software", "digital", "cyber", "cloud", "data", "app", "robotics"},
	},
	{
		Name:          "financial_services",
		Subcategories: []string{"banking", "insurance", "asset_management", "fintech", "private_equity"},
		Keywords:      []string{"bank", "financial", "capital", "invest", "insurance", "credit", "fund"},
	},
	{
		Name:          "healthcare",
		Subcategories: []string{"pharmaceuticals", "biotech", "medical_devices", "hospitals", "health_insurance"},
		Keywords:      []string{"health", "pharma", "medical", "bio", "clinic", "therapeutics"},
	},
	{
		Name:          "energy",
		Subcategories: []string{"oil_gas", "renewables", "utilities", "mining", "nuclear"},
		Keywords:      []string{"energy", "oil", "gas", "solar", "power", "petroleum"},
	},
	{
		Name:          "retail",
		Subcategories: []string{"ecommerce", "grocery", "apparel", "luxury", "consumer_goods"},
		Keywords:      []string{"retail", "store", "shop", "market", "consumer", "brand"},
	},
}

// DefaultIndustry is assigned when no taxonomy keyword matches.
const DefaultIndustry = "technology"

// baseCrisisIndicators apply to every industry.
var baseCrisisIndicators = []string{
	"breach", "lawsuit", "scandal", "investigation", "recall",
	"bankruptcy", "layoffs", "protest", "boycott",
}

// industryCrisisIndicators extend the base set per industry.
var industryCrisisIndicators = map[string][]string{
	"technology":         {"data_breach", "hack", "outage", "antitrust", "privacy_violation"},
	"financial_services": {"fraud", "regulatory_fine", "insider_trading", "money_laundering"},
	"healthcare":         {"fda_warning", "clinical_trial_failure", "drug_recall", "malpractice"},
	"energy":             {"spill", "explosion", "environmental_violation", "blackout"},
	"retail":             {"supply_chain_disruption", "product_recall", "labor_dispute"},
}

// contextOverrideThreshold is the minimum keyword hit count in context
// text before an industry overrides the name-based classification.
const contextOverrideThreshold = 2

// Classifier matches organization names and context text against the
// static taxonomy. Classification is deterministic for identical inputs.
type Classifier struct {
	logger *slog.Logger
}

// NewClassifier creates a taxonomy classifier.
func NewClassifier(logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{logger: logger}
}

// Classify determines an organization's industry from its name, and
// optionally from surrounding context text.
//
// The name pass walks industries in declaration order and returns the
// first whose keyword list has a substring match against any name
// token, with the first two subcategories. No match defaults to
// technology with no subcategories.
//
// When context is non-empty, keyword occurrences are counted per
// industry across the whole context; the highest-counting industry with
// more than two hits overrides the name pass and contributes its full
// subcategory list.
func (c *Classifier) Classify(name, context string) models.IndustryClassification {
	result := c.classifyName(name)

	if context != "" {
		if ind, hits := bestContextIndustry(context); ind != nil {
			result = models.IndustryClassification{
				Primary:       ind.Name,
				Secondary:     []string{},
				Subcategories: append([]string(nil), ind.Subcategories...),
			}
			c.logger.Debug("context override applied", "industry", ind.Name, "hits", hits)
		}
	}

	c.logger.Debug("classified organization", "name", name, "primary", result.Primary)
	return result
}

func (c *Classifier) classifyName(name string) models.IndustryClassification {
	tokens := strings.Fields(strings.ToLower(name))
	for i := range Industries {
		ind := &Industries[i]
		for _, kw := range ind.Keywords {
			for _, tok := range tokens {
				if strings.Contains(tok, kw) {
					subs := ind.Subcategories
					if len(subs) > 2 {
						subs = subs[:2]
					}
					return models.IndustryClassification{
						Primary:       ind.Name,
						Secondary:     []string{},
						Subcategories: append([]string(nil), subs...),
					}
				}
			}
		}
	}
	return models.IndustryClassification{
		Primary:       DefaultIndustry,
		Secondary:     []string{},
		Subcategories: []string{},
	}
}

// bestContextIndustry counts keyword occurrences per industry in the
// context text. Ties keep the earlier-declared industry.
func bestContextIndustry(context string) (*Industry, int) {
	lower := strings.ToLower(context)
	var best *Industry
	bestHits := contextOverrideThreshold
	for i := range Industries {
		hits := 0
		for _, kw := range Industries[i].Keywords {
			hits += strings.Count(lower, kw)
		}
		if hits > bestHits {
			best = &Industries[i]
			bestHits = hits
		}
	}
	return best, bestHits
}

// CrisisIndicators returns the crisis indicator keywords for the given
// primary industry: always a superset of the nine base terms, extended
// per industry. Unrecognized industries get exactly the base set.
func CrisisIndicators(industry string) []string {
	out := make([]string, 0, len(baseCrisisIndicators)+5)
	out = append(out, baseCrisisIndicators...)
	out = append(out, industryCrisisIndicators[industry]...)
	return out
}
