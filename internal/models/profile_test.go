// ABOUTME: Tests for Profile merge semantics
// ABOUTME: Verifies partial updates, validation of enum values and ignored keys

package models

import (
	"sort"
	"testing"
)

func TestProfile_Merge_Partial(t *testing.T) {
	p := &Profile{Name: "Sam", Age: 30, Goal: GoalMaintain, Weight: 80}

	applied := p.Merge(map[string]interface{}{
		"goal":         "loss",
		"targetWeight": "72.5",
	})

	sort.Strings(applied)
	if len(applied) != 2 || applied[0] != "goal" || applied[1] != "targetWeight" {
		t.Errorf("applied = %v, want [goal targetWeight]", applied)
	}
	if p.Goal != GoalLoss {
		t.Errorf("Goal = %q, want loss", p.Goal)
	}
	if p.TargetWeight != 72.5 {
		t.Errorf("TargetWeight = %v, want 72.5", p.TargetWeight)
	}
	if p.Name != "Sam" || p.Age != 30 || p.Weight != 80 {
		t.Errorf("untouched fields changed: %+v", p)
	}
	if p.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set after a merge")
	}
}

func TestProfile_Merge_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		updates map[string]interface{}
	}{
		{"unknown goal", map[string]interface{}{"goal": "bulk"}},
		{"unknown activity", map[string]interface{}{"activityLevel": "couch"}},
		{"negative target", map[string]interface{}{"targetWeight": -3.0}},
		{"non numeric target", map[string]interface{}{"targetWeight": "soon"}},
		{"unknown key", map[string]interface{}{"favoriteColor": "blue"}},
		{"wrong type", map[string]interface{}{"name": 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Profile{Goal: GoalGain, ActivityLevel: ActivityLight, TargetWeight: 70, Name: "Ana"}
			applied := p.Merge(tt.updates)
			if len(applied) != 0 {
				t.Errorf("applied = %v, want none", applied)
			}
			if p.Goal != GoalGain || p.ActivityLevel != ActivityLight || p.TargetWeight != 70 || p.Name != "Ana" {
				t.Errorf("profile changed: %+v", p)
			}
			if !p.UpdatedAt.IsZero() {
				t.Error("UpdatedAt should not change when nothing applied")
			}
		})
	}
}

func TestProfile_Merge_NormalizesCase(t *testing.T) {
	p := &Profile{}

	p.Merge(map[string]interface{}{"activityLevel": "Moderate", "age": 41.0})

	if p.ActivityLevel != ActivityModerate {
		t.Errorf("ActivityLevel = %q, want moderate", p.ActivityLevel)
	}
	if p.Age != 41 {
		t.Errorf("Age = %d, want 41", p.Age)
	}
}

func TestActivityLevel_Factor(t *testing.T) {
	if ActivityVery.Factor() != 1.725 {
		t.Errorf("very factor = %v, want 1.725", ActivityVery.Factor())
	}
	if ActivityLevel("").Factor() != 1.2 {
		t.Errorf("empty factor = %v, want sedentary 1.2", ActivityLevel("").Factor())
	}
}
