// ABOUTME: Tests for directive payload parsers
// ABOUTME: Covers defaults for unreadable numbers and skipped segments
package directive

import (
	"testing"

	"github.com/harper/fuel-ledger/internal/models"
)

func TestParseFood(t *testing.T) {
	items, skipped := ParseFood("apple:95, toast : 80 kcal, mystery:lots, water:0, :50, soup, pie:-20,")

	want := []FoodItem{
		{"apple", 95},
		{"toast", 80},
		{"mystery", DefaultFoodCalories},
		{"water", 0},
		{"soup", DefaultFoodCalories},
		{"pie", DefaultFoodCalories},
	}
	if len(items) != len(want) {
		t.Fatalf("ParseFood() = %+v, want %+v", items, want)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, items[i], want[i])
		}
	}
	if len(skipped) != 1 || skipped[0] != ":50" {
		t.Errorf("skipped = %v, want [:50]", skipped)
	}
}

func TestParseWorkout(t *testing.T) {
	items, _ := ParseWorkout("running:45, yoga:0, swim:abc, cycling:20.5")

	want := []WorkoutItem{
		{"running", 45},
		{"yoga", DefaultWorkoutMinutes},
		{"swim", DefaultWorkoutMinutes},
		{"cycling", 20.5},
	}
	if len(items) != len(want) {
		t.Fatalf("ParseWorkout() = %+v", items)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, items[i], want[i])
		}
	}
}

func TestParseWeight(t *testing.T) {
	tests := []struct {
		payload string
		want    float64
		ok      bool
	}{
		{"80.5", 80.5, true},
		{"about 72 kg today", 72, true},
		{"not-a-number", 0, false},
		{"", 0, false},
		{"-5", 0, false},
		{"0", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseWeight(tt.payload)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseWeight(%q) = %v, %v; want %v, %v", tt.payload, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseProfile(t *testing.T) {
	patch, skipped := ParseProfile("goal:loss, targetWeight: 70kg, activityLevel:Moderate, shoeSize:44, targetWeight:heavy")

	if patch[models.ProfileGoal] != "loss" {
		t.Errorf("goal = %v", patch[models.ProfileGoal])
	}
	if patch[models.ProfileTargetWeight] != 70.0 {
		t.Errorf("targetWeight = %v, want 70", patch[models.ProfileTargetWeight])
	}
	if patch[models.ProfileActivityLevel] != "Moderate" {
		t.Errorf("activityLevel = %v", patch[models.ProfileActivityLevel])
	}
	if len(skipped) != 2 {
		t.Errorf("skipped = %v, want shoeSize and the unreadable targetWeight", skipped)
	}
}
