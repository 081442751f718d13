package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/proctorly/integrity-api/internal/models"
)

// BehaviorSummary is a pure count summary of passively logged proctoring
// events. No inference happens here; thresholds decide suspicion.
type BehaviorSummary struct {
	CopyPasteCount int
	TabSwitchCount int
	FocusLossCount int
	LongestIdleGap float64
	Suspicious     bool
	Severity       string
	Evidence       string
}

// SummarizeBehavior counts copy/paste and tab-switch events and applies the
// configured suspicion thresholds. Severity escalates to high when either
// count exceeds the high-activity limit.
func SummarizeBehavior(events []models.BehavioralEvent, policy Policy) BehaviorSummary {
	summary := BehaviorSummary{}
	for _, e := range events {
		switch e.Type {
		case models.EventCopy, models.EventPaste:
			summary.CopyPasteCount++
		case models.EventTabSwitch:
			summary.TabSwitchCount++
		case models.EventFocusLoss:
			summary.FocusLossCount++
		}
	}

	summary.LongestIdleGap = longestGapSeconds(events)

	idle := policy.MaxIdleTimeSeconds > 0 && summary.LongestIdleGap > policy.MaxIdleTimeSeconds
	if summary.CopyPasteCount >= policy.SuspiciousCopyPasteCount || summary.TabSwitchCount >= policy.SuspiciousTabSwitchCount || idle {
		summary.Suspicious = true
		summary.Severity = models.SeverityMedium
		if summary.CopyPasteCount > policy.HighActivityCount || summary.TabSwitchCount > policy.HighActivityCount {
			summary.Severity = models.SeverityHigh
		}
		summary.Evidence = fmt.Sprintf("%d copy-paste events, %d tab switches, %d focus losses",
			summary.CopyPasteCount, summary.TabSwitchCount, summary.FocusLossCount)
		if idle {
			summary.Evidence += fmt.Sprintf(", %.0fs idle gap", summary.LongestIdleGap)
		}
	}

	return summary
}

// longestGapSeconds returns the widest interval between consecutive
// timestamped events. Events without timestamps are ignored.
func longestGapSeconds(events []models.BehavioralEvent) float64 {
	var stamps []time.Time
	for _, e := range events {
		if !e.OccurredAt.IsZero() {
			stamps = append(stamps, e.OccurredAt)
		}
	}
	if len(stamps) < 2 {
		return 0
	}

	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })

	var longest float64
	for i := 1; i < len(stamps); i++ {
		if gap := stamps[i].Sub(stamps[i-1]).Seconds(); gap > longest {
			longest = gap
		}
	}
	return longest
}
