package insights

import (
	"time"

	"github.com/rcliao/memory-insights/internal/model"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(days float64) string {
	return testNow.Add(-time.Duration(days * float64(24*time.Hour))).Format(time.RFC3339Nano)
}

type memOpt func(*model.Memory)

func withTags(tags string) memOpt {
	return func(m *model.Memory) { m.Tags = &tags }
}

func inProject(id string) memOpt {
	return func(m *model.Memory) {
		m.Scope = model.ScopeProject
		m.ProjectID = &id
	}
}

func createdDaysAgo(days float64) memOpt {
	return func(m *model.Memory) { m.CreatedAt = daysAgo(days) }
}

func updatedDaysAgo(days float64) memOpt {
	return func(m *model.Memory) { m.UpdatedAt = daysAgo(days) }
}

// newMemory builds a global memory created and updated 100 days before testNow.
func newMemory(id, typ, content string, opts ...memOpt) model.Memory {
	m := model.Memory{
		ID:        id,
		Content:   content,
		Type:      typ,
		Scope:     model.ScopeGlobal,
		CreatedAt: daysAgo(100),
	}
	for _, o := range opts {
		o(&m)
	}
	return m
}

func mfaMemories() []model.Memory {
	return []model.Memory{
		newMemory("r-mfa-on", model.TypeRule, "Always require MFA for admin console logins.",
			withTags("mfa, security"), inProject("p1"), createdDaysAgo(30), updatedDaysAgo(10)),
		newMemory("r-mfa-off", model.TypeRule, "Do not require MFA for admin console logins from the office VPN.",
			withTags("MFA"), inProject("p1"), createdDaysAgo(5), updatedDaysAgo(2)),
		newMemory("r-billing", model.TypeRule, "Use Stripe for all invoice billing flows.",
			withTags("billing"), inProject("p1"), createdDaysAgo(4)),
	}
}
