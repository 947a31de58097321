package report

import (
	"fmt"
	"sort"

	"github.com/toyinlola/heft/pkg/interfaces"
)

// Fit verdicts.
const (
	FitComfortable  = "comfortable"
	FitTight        = "tight"
	FitInsufficient = "insufficient"
)

// Fit is a rough comparison of a dependency footprint with a target server.
type Fit struct {
	MinCPUCores     int      `json:"minCPUCores" yaml:"minCPUCores"`
	MinRAMGB        int      `json:"minRAMGB" yaml:"minRAMGB"`
	Verdict         string   `json:"verdict" yaml:"verdict"`
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
}

// minimumSpecs is the suggested floor per risk tier.
var minimumSpecs = map[interfaces.RiskLevel]interfaces.ServerSpecs{
	interfaces.RiskLow:      {CPUCores: 1, RAMGB: 1},
	interfaces.RiskMedium:   {CPUCores: 1, RAMGB: 2},
	interfaces.RiskHigh:     {CPUCores: 2, RAMGB: 4},
	interfaces.RiskCritical: {CPUCores: 4, RAMGB: 8},
}

// AssessFit compares the score with the target server. A server meeting the
// tier floor is comfortable, one meeting half of it is tight.
func AssessFit(score interfaces.ScoreReport, specs interfaces.ServerSpecs) Fit {
	floor, ok := minimumSpecs[score.RiskLevel]
	if !ok {
		floor = minimumSpecs[interfaces.RiskLow]
	}

	fit := Fit{MinCPUCores: floor.CPUCores, MinRAMGB: floor.RAMGB}

	switch {
	case specs.CPUCores >= floor.CPUCores && specs.RAMGB >= floor.RAMGB:
		fit.Verdict = FitComfortable
	case specs.CPUCores*2 >= floor.CPUCores && specs.RAMGB*2 >= floor.RAMGB:
		fit.Verdict = FitTight
	default:
		fit.Verdict = FitInsufficient
	}

	fit.Recommendations = recommendations(score, specs, fit)
	return fit
}

func recommendations(score interfaces.ScoreReport, specs interfaces.ServerSpecs, fit Fit) []string {
	var out []string
	a := score.Analysis

	if fit.Verdict != FitComfortable {
		out = append(out, fmt.Sprintf("Plan for at least %d CPU cores and %d GB RAM instead of %d cores and %d GB.",
			fit.MinCPUCores, fit.MinRAMGB, specs.CPUCores, specs.RAMGB))
	}
	if a.HasBrowserAutomation {
		out = append(out, "Headless browsers need several hundred MB per instance; cap concurrency or move them to a worker pool.")
	}
	if a.HasAI {
		out = append(out, "Local ML inference dominates memory; consider a hosted model endpoint or a GPU node.")
	}
	if a.HasVideoProcessing {
		out = append(out, "Video transcoding is CPU bound; run it on a queue with dedicated workers.")
	}
	if a.HasImageProcessing {
		out = append(out, "Image processing spikes memory per request; bound request concurrency.")
	}
	if a.HasDatabase {
		out = append(out, "Database clients keep connection pools; size them to the server's memory.")
	}
	if len(out) == 0 {
		out = append(out, "No resource-heavy dependencies detected; the default server size should be enough.")
	}
	return out
}

func sortedCategories(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
