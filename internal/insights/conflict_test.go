package insights

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/memory-insights/internal/model"
)

func TestDetectConflicts_ProjectMFA(t *testing.T) {
	matches, total := detectConflicts(prepare(mfaMemories(), RegexClassifier{}))
	require.Equal(t, 1, total)
	require.Len(t, matches, 1)

	c := matches[0].insight()
	assert.Equal(t, "conflict:r-mfa-on:r-mfa-off", c.ID)
	assert.Equal(t, "p1", c.Project)
	assert.Equal(t, []string{"mfa"}, c.SharedTags)
	assert.Equal(t, []string{"mfa", "require", "admin", "console", "logins"}, c.SharedTopics)
	assert.Equal(t, 0.67, c.Similarity)
	assert.Equal(t, 3+5*2+7, c.Score)
	assert.Equal(t, PolarityPositive, c.MemoryA.Polarity)
	assert.Equal(t, PolarityNegative, c.MemoryB.Polarity)
	assert.Equal(t, "r-mfa-on", matches[0].older().Memory.ID)
}

func TestDetectConflicts_Symmetric(t *testing.T) {
	forward := mfaMemories()
	reversed := []model.Memory{forward[1], forward[0], forward[2]}

	m1, _ := detectConflicts(prepare(forward, RegexClassifier{}))
	m2, _ := detectConflicts(prepare(reversed, RegexClassifier{}))
	require.Len(t, m1, 1)
	require.Len(t, m2, 1)

	ids := func(c conflictMatch) []string { return []string{c.a.Memory.ID, c.b.Memory.ID} }
	assert.ElementsMatch(t, ids(m1[0]), ids(m2[0]))
	assert.Equal(t, m1[0].score, m2[0].score)
	assert.Equal(t, m1[0].similarity, m2[0].similarity)
	assert.Equal(t, m1[0].older().Memory.ID, m2[0].older().Memory.ID)
}

func TestDetectConflicts_Gates(t *testing.T) {
	tests := []struct {
		name     string
		memories []model.Memory
		want     int
	}{
		{
			name: "same polarity never conflicts",
			memories: []model.Memory{
				newMemory("a", model.TypeRule, "Always require MFA", withTags("mfa")),
				newMemory("b", model.TypeRule, "Require MFA for admins", withTags("mfa")),
			},
		},
		{
			name: "different projects never conflict",
			memories: []model.Memory{
				newMemory("a", model.TypeRule, "Always require MFA", withTags("mfa"), inProject("p1")),
				newMemory("b", model.TypeRule, "Never require MFA", withTags("mfa"), inProject("p2")),
			},
		},
		{
			name: "facts and notes are not candidates",
			memories: []model.Memory{
				newMemory("a", model.TypeFact, "Always require MFA", withTags("mfa")),
				newMemory("b", model.TypeNote, "Never require MFA", withTags("mfa")),
			},
		},
		{
			name: "shared topics and similarity without tags",
			memories: []model.Memory{
				newMemory("a", model.TypeRule, "Always use tabs for indentation in Go files"),
				newMemory("b", model.TypeDecision, "Never use tabs for indentation in Go files"),
			},
			want: 1,
		},
		{
			name: "shared topics but low similarity without tags",
			memories: []model.Memory{
				newMemory("a", model.TypeRule, "Always deploy releases alpha bravo charlie delta echo foxtrot golf hotel india juliet"),
				newMemory("b", model.TypeRule, "Never deploy releases kilo lima mike november oscar papa quebec romeo sierra tango"),
			},
		},
		{
			name: "a single shared topic is not enough",
			memories: []model.Memory{
				newMemory("a", model.TypeRule, "Always deploy"),
				newMemory("b", model.TypeRule, "Never deploy"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, total := detectConflicts(prepare(tt.memories, RegexClassifier{}))
			assert.Equal(t, tt.want, total)
		})
	}
}

func TestDetectConflicts_CapKeepsTotal(t *testing.T) {
	var memories []model.Memory
	for i := 0; i < 5; i++ {
		memories = append(memories,
			newMemory(fmt.Sprintf("on-%d", i), model.TypeRule, "Require MFA for service "+string(rune('a'+i)), withTags("mfa")),
			newMemory(fmt.Sprintf("off-%d", i), model.TypeRule, "Do not require MFA for service "+string(rune('a'+i)), withTags("mfa")),
		)
	}
	matches, total := detectConflicts(prepare(memories, RegexClassifier{}))
	assert.Equal(t, 25, total)
	assert.Len(t, matches, conflictCandidateCap)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].score, matches[i].score)
	}
}
