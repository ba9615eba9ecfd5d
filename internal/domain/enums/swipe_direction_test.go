package enums

import "testing"

func TestParseSwipeDirectionAliases(t *testing.T) {
	cases := []struct {
		input string
		want  SwipeDirection
	}{
		{"LIKE", DirectionLike},
		{"like", DirectionLike},
		{"RIGHT", DirectionLike},
		{" right ", DirectionLike},
		{"PASS", DirectionPass},
		{"LEFT", DirectionPass},
		{"left", DirectionPass},
	}

	for _, tc := range cases {
		got, err := ParseSwipeDirection(tc.input)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("parse %q: got %s want %s", tc.input, got, tc.want)
		}
	}
}

func TestParseSwipeDirectionRejectsUnknown(t *testing.T) {
	for _, input := range []string{"", "UP", "SUPERLIKE", "L"} {
		if _, err := ParseSwipeDirection(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}
