package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/proctorly/integrity-api/internal/models"
)

func eventsOf(eventType string, count int) []models.BehavioralEvent {
	events := make([]models.BehavioralEvent, count)
	for i := range events {
		events[i] = models.BehavioralEvent{Type: eventType}
	}
	return events
}

func TestSummarizeBehavior(t *testing.T) {
	cases := []struct {
		name       string
		events     []models.BehavioralEvent
		suspicious bool
		severity   string
	}{
		{name: "no events", events: nil, suspicious: false},
		{
			name:       "below both thresholds",
			events:     append(eventsOf(models.EventCopy, 2), eventsOf(models.EventTabSwitch, 4)...),
			suspicious: false,
		},
		{
			name:       "copy paste at threshold",
			events:     append(eventsOf(models.EventCopy, 2), eventsOf(models.EventPaste, 1)...),
			suspicious: true,
			severity:   models.SeverityMedium,
		},
		{
			name:       "tab switches at threshold",
			events:     eventsOf(models.EventTabSwitch, 5),
			suspicious: true,
			severity:   models.SeverityMedium,
		},
		{
			name:       "heavy tab switching escalates",
			events:     eventsOf(models.EventTabSwitch, 11),
			suspicious: true,
			severity:   models.SeverityHigh,
		},
		{
			name:       "focus loss alone does not trigger",
			events:     eventsOf(models.EventFocusLoss, 20),
			suspicious: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			summary := SummarizeBehavior(tc.events, DefaultPolicy())
			require.Equal(t, tc.suspicious, summary.Suspicious)
			if tc.suspicious {
				require.Equal(t, tc.severity, summary.Severity)
				require.NotEmpty(t, summary.Evidence)
			}
		})
	}
}

func TestSummarizeBehaviorIdleGap(t *testing.T) {
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	events := []models.BehavioralEvent{
		{Type: models.EventFocusLoss, OccurredAt: base},
		{Type: models.EventFocusLoss, OccurredAt: base.Add(10 * time.Minute)},
		{Type: models.EventFocusLoss, OccurredAt: base.Add(11 * time.Minute)},
	}

	summary := SummarizeBehavior(events, DefaultPolicy())
	require.True(t, summary.Suspicious)
	require.Equal(t, models.SeverityMedium, summary.Severity)
	require.InDelta(t, 600, summary.LongestIdleGap, 0.001)
	require.Contains(t, summary.Evidence, "idle gap")
}

func TestSummarizeBehaviorShortGapsNotIdle(t *testing.T) {
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	events := []models.BehavioralEvent{
		{Type: models.EventFocusLoss, OccurredAt: base},
		{Type: models.EventFocusLoss, OccurredAt: base.Add(2 * time.Minute)},
	}

	summary := SummarizeBehavior(events, DefaultPolicy())
	require.False(t, summary.Suspicious)
	require.InDelta(t, 120, summary.LongestIdleGap, 0.001)
}
