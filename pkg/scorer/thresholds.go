package scorer

import (
	"strings"

	"github.com/toyinlola/heft/pkg/interfaces"
)

// Lower bounds (inclusive) of each risk tier.
const (
	MediumRiskThreshold   = 6
	HighRiskThreshold     = 16
	CriticalRiskThreshold = 31
)

// RiskLevelFromWeight returns the risk tier for a summed dependency weight.
// LOW: 0-5
// MEDIUM: 6-15
// HIGH: 16-30
// CRITICAL: 31+
func RiskLevelFromWeight(totalWeight int) interfaces.RiskLevel {
	switch {
	case totalWeight >= CriticalRiskThreshold:
		return interfaces.RiskCritical
	case totalWeight >= HighRiskThreshold:
		return interfaces.RiskHigh
	case totalWeight >= MediumRiskThreshold:
		return interfaces.RiskMedium
	default:
		return interfaces.RiskLow
	}
}

// riskRank orders risk levels from LOW to CRITICAL.
var riskRank = map[interfaces.RiskLevel]int{
	interfaces.RiskLow:      0,
	interfaces.RiskMedium:   1,
	interfaces.RiskHigh:     2,
	interfaces.RiskCritical: 3,
}

// AtLeast reports whether level is at or above floor.
func AtLeast(level, floor interfaces.RiskLevel) bool {
	return riskRank[level] >= riskRank[floor]
}

// ParseRiskLevel converts a case-insensitive name into a RiskLevel.
func ParseRiskLevel(s string) (interfaces.RiskLevel, bool) {
	switch interfaces.RiskLevel(strings.ToUpper(strings.TrimSpace(s))) {
	case interfaces.RiskLow:
		return interfaces.RiskLow, true
	case interfaces.RiskMedium:
		return interfaces.RiskMedium, true
	case interfaces.RiskHigh:
		return interfaces.RiskHigh, true
	case interfaces.RiskCritical:
		return interfaces.RiskCritical, true
	default:
		return "", false
	}
}
