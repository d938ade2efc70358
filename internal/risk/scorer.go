// Package risk scores documents for risk and compliance coverage by indicator lookup.
package risk

import (
	"strings"

	"legalrag/internal/domain"
)

// Risk tier names used in RiskFactor.Level.
const (
	TierHigh       = "high_risk"
	TierMedium     = "medium_risk"
	TierCompliance = "compliance_risk"
)

// Score thresholds.
const (
	HighThreshold   = 6
	MediumThreshold = 3

	// ComplianceAreaWeight is the score each covered compliance area contributes.
	ComplianceAreaWeight = 20
	// ComplianceWarnBelow triggers the compliance recommendation.
	ComplianceWarnBelow = 40
)

type tier struct {
	name       string
	weight     int
	indicators []string
}

var tiers = []tier{
	{TierHigh, 3, []string{"unlimited liability", "no limitation", "personal guarantee", "indemnify", "hold harmless", "liquidated damages"}},
	{TierMedium, 2, []string{"material breach", "immediate termination", "sole discretion", "as is", "no warranty", "force majeure"}},
	{TierCompliance, 1, []string{"gdpr", "privacy", "data protection", "regulatory", "compliance", "audit", "inspection"}},
}

type area struct {
	name       string
	indicators []string
}

var areas = []area{
	{"data_protection", []string{"gdpr", "data protection", "privacy policy", "personal data"}},
	{"financial", []string{"sox", "sarbanes", "financial reporting", "audit"}},
	{"employment", []string{"equal opportunity", "discrimination", "harassment", "workplace"}},
	{"environmental", []string{"environmental", "sustainability", "carbon", "emissions"}},
	{"security", []string{"security", "cybersecurity", "data breach", "encryption"}},
}

// AssessRisk weighs the risk indicators found in text: high 3, medium 2, compliance 1.
// A score of 6 or more is HIGH, 3 or more MEDIUM, otherwise LOW.
func AssessRisk(text string) domain.RiskReport {
	lower := strings.ToLower(text)
	report := domain.RiskReport{RiskFactors: []domain.RiskFactor{}}

	for _, t := range tiers {
		found := findAll(lower, t.indicators)
		if len(found) == 0 {
			continue
		}
		report.RiskFactors = append(report.RiskFactors, domain.RiskFactor{
			Level:      t.name,
			Indicators: found,
			Count:      len(found),
		})
		report.Score += len(found) * t.weight
	}

	switch {
	case report.Score >= HighThreshold:
		report.OverallRiskLevel = domain.RiskHigh
		report.Recommendations = []string{"Consider legal review before signing", "Negotiate liability limitations"}
	case report.Score >= MediumThreshold:
		report.OverallRiskLevel = domain.RiskMedium
		report.Recommendations = []string{"Review key terms carefully", "Consider professional advice"}
	default:
		report.OverallRiskLevel = domain.RiskLow
		report.Recommendations = []string{"Standard risk level - review as normal"}
	}
	return report
}

// CheckCompliance reports which compliance areas text touches. The score is 20 per area.
func CheckCompliance(text string) domain.ComplianceReport {
	lower := strings.ToLower(text)
	report := domain.ComplianceReport{
		AreasCovered:    []domain.ComplianceArea{},
		Recommendations: []string{},
	}

	for _, a := range areas {
		found := findAll(lower, a.indicators)
		if len(found) == 0 {
			continue
		}
		report.AreasCovered = append(report.AreasCovered, domain.ComplianceArea{
			Area:            a.name,
			IndicatorsFound: found,
			CoverageLevel:   len(found),
		})
	}

	report.ComplianceScore = len(report.AreasCovered) * ComplianceAreaWeight
	if report.ComplianceScore < ComplianceWarnBelow {
		report.Recommendations = append(report.Recommendations, "Consider adding compliance clauses")
	}
	return report
}

func findAll(lower string, indicators []string) []string {
	var found []string
	for _, ind := range indicators {
		if strings.Contains(lower, ind) {
			found = append(found, ind)
		}
	}
	return found
}
