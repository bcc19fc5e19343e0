package sla

import (
	"testing"

	"github.com/fleetrelay/support-service/internal/domain"
)

func TestPolicyFromSettings(t *testing.T) {
	cases := []struct {
		name   string
		values map[string]string
		want   Policy
	}{
		{
			name:   "empty map uses defaults",
			values: map[string]string{},
			want:   DefaultPolicy(),
		},
		{
			name: "all keys present",
			values: map[string]string{
				SettingKeyUrgentThresholdMinutes: "15",
				SettingKeyNormalThresholdMinutes: "120",
				SettingKeyComplianceTarget:       "90",
			},
			want: Policy{UrgentThresholdMinutes: 15, NormalThresholdMinutes: 120, ComplianceTargetPercent: 90},
		},
		{
			name: "non-numeric falls back per key",
			values: map[string]string{
				SettingKeyUrgentThresholdMinutes: "soon",
				SettingKeyNormalThresholdMinutes: "60",
			},
			want: Policy{
				UrgentThresholdMinutes:  DefaultUrgentThresholdMinutes,
				NormalThresholdMinutes:  60,
				ComplianceTargetPercent: DefaultComplianceTargetPercent,
			},
		},
		{
			name: "negative falls back",
			values: map[string]string{
				SettingKeyUrgentThresholdMinutes: "-5",
			},
			want: DefaultPolicy(),
		},
		{
			name: "zero is a valid threshold",
			values: map[string]string{
				SettingKeyUrgentThresholdMinutes: "0",
				SettingKeyNormalThresholdMinutes: "0",
			},
			want: Policy{
				UrgentThresholdMinutes:  0,
				NormalThresholdMinutes:  0,
				ComplianceTargetPercent: DefaultComplianceTargetPercent,
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PolicyFromSettings(tc.values)
			if got != tc.want {
				t.Errorf("PolicyFromSettings = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestThresholdMinutes(t *testing.T) {
	policy := Policy{UrgentThresholdMinutes: 30, NormalThresholdMinutes: 240}
	if got := policy.ThresholdMinutes(domain.TicketPriorityUrgent); got != 30 {
		t.Errorf("urgent threshold = %d, want 30", got)
	}
	if got := policy.ThresholdMinutes(domain.TicketPriorityNormal); got != 240 {
		t.Errorf("normal threshold = %d, want 240", got)
	}
}
