package sla

import (
	"strconv"

	"github.com/fleetrelay/support-service/internal/domain"
)

// Settings keys for SLA policy values.
const (
	SettingKeyUrgentThresholdMinutes = "sla_urgency_threshold_minutes"
	SettingKeyNormalThresholdMinutes = "sla_normal_threshold_minutes"
	SettingKeyComplianceTarget       = "sla_compliance_target"
)

// Documented defaults applied for missing or unparseable settings.
const (
	DefaultUrgentThresholdMinutes  = 30
	DefaultNormalThresholdMinutes  = 240
	DefaultComplianceTargetPercent = 85
)

// Policy is an immutable snapshot of the SLA configuration for one request.
// It is re-loaded at read time, so changing a setting changes the computed
// deadline for all tickets retroactively.
type Policy struct {
	UrgentThresholdMinutes  int
	NormalThresholdMinutes  int
	ComplianceTargetPercent int
}

// DefaultPolicy returns the documented defaults.
func DefaultPolicy() Policy {
	return Policy{
		UrgentThresholdMinutes:  DefaultUrgentThresholdMinutes,
		NormalThresholdMinutes:  DefaultNormalThresholdMinutes,
		ComplianceTargetPercent: DefaultComplianceTargetPercent,
	}
}

// PolicyFromSettings parses the three SLA settings keys from raw stored
// values. A missing, non-numeric, or negative value silently falls back to
// its default; zero is a valid threshold.
func PolicyFromSettings(values map[string]string) Policy {
	policy := DefaultPolicy()
	policy.UrgentThresholdMinutes = parseSetting(values, SettingKeyUrgentThresholdMinutes, DefaultUrgentThresholdMinutes)
	policy.NormalThresholdMinutes = parseSetting(values, SettingKeyNormalThresholdMinutes, DefaultNormalThresholdMinutes)
	policy.ComplianceTargetPercent = parseSetting(values, SettingKeyComplianceTarget, DefaultComplianceTargetPercent)
	return policy
}

// ThresholdMinutes returns the elapsed-minutes budget for the priority.
func (p Policy) ThresholdMinutes(priority domain.TicketPriority) int {
	if priority == domain.TicketPriorityUrgent {
		return p.UrgentThresholdMinutes
	}
	return p.NormalThresholdMinutes
}

func parseSetting(values map[string]string, key string, fallback int) int {
	raw, ok := values[key]
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
