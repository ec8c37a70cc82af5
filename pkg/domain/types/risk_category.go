package types

import "fmt"

// RiskCategory represents the category of an identified risk
type RiskCategory string

const (
	RiskCategoryTechnical RiskCategory = "technical"
	RiskCategoryResource  RiskCategory = "resource"
	RiskCategorySchedule  RiskCategory = "schedule"
	RiskCategoryQuality   RiskCategory = "quality"
	RiskCategoryExternal  RiskCategory = "external"
)

// AllRiskCategories returns all valid risk categories
func AllRiskCategories() []RiskCategory {
	return []RiskCategory{
		RiskCategoryTechnical,
		RiskCategoryResource,
		RiskCategorySchedule,
		RiskCategoryQuality,
		RiskCategoryExternal,
	}
}

// IsValid checks if the risk category is valid
func (c RiskCategory) IsValid() bool {
	switch c {
	case RiskCategoryTechnical,
		RiskCategoryResource,
		RiskCategorySchedule,
		RiskCategoryQuality,
		RiskCategoryExternal:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk category
func (c RiskCategory) String() string {
	return string(c)
}

// ParseRiskCategory parses a string into a RiskCategory
func ParseRiskCategory(s string) (RiskCategory, error) {
	category := RiskCategory(s)
	if !category.IsValid() {
		return "", fmt.Errorf("invalid risk category: %s", s)
	}
	return category, nil
}
