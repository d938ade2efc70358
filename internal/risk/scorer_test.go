package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalrag/internal/domain"
)

func TestAssessRisk_HighFromTwoHighIndicators(t *testing.T) {
	text := "The Supplier accepts unlimited liability and shall indemnify the Customer."

	got := AssessRisk(text)

	assert.Equal(t, domain.RiskHigh, got.OverallRiskLevel)
	assert.Equal(t, 6, got.Score)
	require.Len(t, got.RiskFactors, 1)
	assert.Equal(t, TierHigh, got.RiskFactors[0].Level)
	assert.Equal(t, []string{"unlimited liability", "indemnify"}, got.RiskFactors[0].Indicators)
	assert.Equal(t, 2, got.RiskFactors[0].Count)
	assert.Equal(t, []string{"Consider legal review before signing", "Negotiate liability limitations"}, got.Recommendations)
}

func TestAssessRisk_Medium(t *testing.T) {
	// medium 2 + compliance 1
	got := AssessRisk("Upon MATERIAL BREACH the vendor may act. Subject to audit.")

	assert.Equal(t, domain.RiskMedium, got.OverallRiskLevel)
	assert.Equal(t, 3, got.Score)
	require.Len(t, got.RiskFactors, 2)
	assert.Equal(t, TierMedium, got.RiskFactors[0].Level)
	assert.Equal(t, TierCompliance, got.RiskFactors[1].Level)
	assert.Equal(t, []string{"Review key terms carefully", "Consider professional advice"}, got.Recommendations)
}

func TestAssessRisk_Low(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		score int
	}{
		{"empty", "", 0},
		{"plain", "The parties agree to cooperate.", 0},
		{"compliance only", "This policy covers privacy and audit.", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssessRisk(tt.text)

			assert.Equal(t, domain.RiskLow, got.OverallRiskLevel)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, []string{"Standard risk level - review as normal"}, got.Recommendations)
			assert.NotNil(t, got.RiskFactors)
		})
	}
}

func TestAssessRisk_ScoreIsMonotonic(t *testing.T) {
	base := "The goods are provided as is."
	more := base + " Liquidated damages apply."

	assert.GreaterOrEqual(t, AssessRisk(more).Score, AssessRisk(base).Score)
}

func TestCheckCompliance(t *testing.T) {
	text := "Personal data is handled per GDPR. Encryption protects data. Annual audit required."

	got := CheckCompliance(text)

	require.Len(t, got.AreasCovered, 3)
	assert.Equal(t, "data_protection", got.AreasCovered[0].Area)
	assert.Equal(t, []string{"gdpr", "personal data"}, got.AreasCovered[0].IndicatorsFound)
	assert.Equal(t, 2, got.AreasCovered[0].CoverageLevel)
	assert.Equal(t, "financial", got.AreasCovered[1].Area)
	assert.Equal(t, "security", got.AreasCovered[2].Area)
	assert.Equal(t, 60, got.ComplianceScore)
	assert.Empty(t, got.Recommendations)
}

func TestCheckCompliance_LowCoverageRecommends(t *testing.T) {
	got := CheckCompliance("Workplace rules apply.")

	assert.Equal(t, 20, got.ComplianceScore)
	assert.Equal(t, []string{"Consider adding compliance clauses"}, got.Recommendations)
}

func TestCheckCompliance_Empty(t *testing.T) {
	got := CheckCompliance("")

	assert.Empty(t, got.AreasCovered)
	assert.Equal(t, 0, got.ComplianceScore)
	assert.Len(t, got.Recommendations, 1)
}
