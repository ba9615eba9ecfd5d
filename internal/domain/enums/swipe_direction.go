package enums

import (
	"fmt"
	"strings"
)

type SwipeDirection string

const (
	DirectionLike SwipeDirection = "LIKE"
	DirectionPass SwipeDirection = "PASS"
)

// ParseSwipeDirection normalizes a wire value into a canonical direction.
// LEFT and RIGHT are accepted as aliases for PASS and LIKE.
func ParseSwipeDirection(input string) (SwipeDirection, error) {
	switch strings.ToUpper(strings.TrimSpace(input)) {
	case "LIKE", "RIGHT":
		return DirectionLike, nil
	case "PASS", "LEFT":
		return DirectionPass, nil
	default:
		return "", fmt.Errorf("unknown swipe direction %q", input)
	}
}

func (d SwipeDirection) Valid() bool {
	return d == DirectionLike || d == DirectionPass
}
