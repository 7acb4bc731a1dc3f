// ABOUTME: Tests for the directive scanner and stripper
// ABOUTME: Covers keyword position, several directives per line and line terminators
package directive

import "testing"

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keywords []Keyword
		payloads []string
	}{
		{
			name: "none",
			text: "Nice work today!",
		},
		{
			name:     "mid line",
			text:     "Great job! FOOD_UPDATE: apple:95, toast:80\nKeep it up!",
			keywords: []Keyword{FoodUpdate},
			payloads: []string{"apple:95, toast:80"},
		},
		{
			name:     "one per line",
			text:     "WORKOUT_UPDATE: run:30\nWEIGHT_UPDATE: 80.5\nPROFILE_UPDATE: goal:loss",
			keywords: []Keyword{WorkoutUpdate, WeightUpdate, ProfileUpdate},
			payloads: []string{"run:30", "80.5", "goal:loss"},
		},
		{
			name:     "two on one line",
			text:     "WEIGHT_UPDATE: 80 FOOD_UPDATE: pie:300",
			keywords: []Keyword{WeightUpdate, FoodUpdate},
			payloads: []string{"80", "pie:300"},
		},
		{
			name:     "same keyword twice on one line",
			text:     "Logged! FOOD_UPDATE: pie:300 FOOD_UPDATE: tea:5",
			keywords: []Keyword{FoodUpdate, FoodUpdate},
			payloads: []string{"pie:300", "tea:5"},
		},
		{
			name:     "spaces before colon",
			text:     "FOOD_UPDATE   : rice:200",
			keywords: []Keyword{FoodUpdate},
			payloads: []string{"rice:200"},
		},
		{
			name: "keyword without colon is prose",
			text: "I will send a FOOD_UPDATE later",
		},
		{
			name:     "prose mention then real directive",
			text:     "About FOOD_UPDATE usage FOOD_UPDATE: egg:70",
			keywords: []Keyword{FoodUpdate},
			payloads: []string{"egg:70"},
		},
		{
			name: "case sensitive",
			text: "food_update: apple:95",
		},
		{
			name:     "crlf",
			text:     "WEIGHT_UPDATE: 72\r\nbye",
			keywords: []Keyword{WeightUpdate},
			payloads: []string{"72"},
		},
		{
			name:     "empty payload",
			text:     "FOOD_UPDATE:",
			keywords: []Keyword{FoodUpdate},
			payloads: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if len(got) != len(tt.keywords) {
				t.Fatalf("Tokenize() returned %d directives, want %d: %+v", len(got), len(tt.keywords), got)
			}
			for i, d := range got {
				if d.Keyword != tt.keywords[i] {
					t.Errorf("directive %d keyword = %s, want %s", i, d.Keyword, tt.keywords[i])
				}
				if d.Payload != tt.payloads[i] {
					t.Errorf("directive %d payload = %q, want %q", i, d.Payload, tt.payloads[i])
				}
			}
		})
	}
}

func TestTokenizeLineNumbers(t *testing.T) {
	got := Tokenize("hello\n\nWATER\nWEIGHT_UPDATE: 70\n")
	if len(got) != 1 || got[0].Line != 4 {
		t.Errorf("Tokenize() = %+v, want one directive on line 4", got)
	}
}

func TestStrip(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Great job! FOOD_UPDATE: apple:95, toast:80\nKeep it up!", "Great job! \nKeep it up!"},
		{"WEIGHT_UPDATE: 80\nWORKOUT_UPDATE: run:20\nDone", "\n\nDone"},
		{"Logged.\r\nPROFILE_UPDATE: goal:gain\r\nSee you", "Logged.\r\n\r\nSee you"},
		{"Logged! FOOD_UPDATE: pie:300 WORKOUT_UPDATE: run:30", "Logged! "},
		{"No directives here", "No directives here"},
		{"FOOD_UPDATE: not even valid", ""},
	}

	for _, tt := range tests {
		got := Strip(tt.text, Tokenize(tt.text))
		if got != tt.want {
			t.Errorf("Strip(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
