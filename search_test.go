package songdoc

import "testing"

func TestFindFloor(t *testing.T) {
	keys := []int{0, 10, 20, 30}
	key := func(v int) int { return v }
	tests := []struct {
		probe, want int
	}{
		{-1, -1},
		{0, 0},
		{5, 0},
		{10, 1},
		{29, 2},
		{30, 3},
		{100, 3},
	}
	for _, test := range tests {
		if got := findFloor(keys, test.probe, key); got != test.want {
			t.Errorf("findFloor(%v) = %v, want %v", test.probe, got, test.want)
		}
	}
	if got := findFloor(nil, 5, key); got != -1 {
		t.Errorf("findFloor on empty = %v, want -1", got)
	}
}

func TestFindStrictFloor(t *testing.T) {
	keys := []int{0, 10, 20, 30}
	key := func(v int) int { return v }
	tests := []struct {
		probe, want int
	}{
		{0, -1},
		{1, 0},
		{10, 0},
		{11, 1},
		{30, 2},
		{31, 3},
	}
	for _, test := range tests {
		if got := findStrictFloor(keys, test.probe, key); got != test.want {
			t.Errorf("findStrictFloor(%v) = %v, want %v", test.probe, got, test.want)
		}
	}
}

func TestFindCeiling(t *testing.T) {
	keys := []int{0, 10, 20, 30}
	key := func(v int) int { return v }
	tests := []struct {
		probe, want int
	}{
		{-5, 0},
		{0, 0},
		{1, 1},
		{10, 1},
		{30, 3},
		{31, -1},
	}
	for _, test := range tests {
		if got := findCeiling(keys, test.probe, key); got != test.want {
			t.Errorf("findCeiling(%v) = %v, want %v", test.probe, got, test.want)
		}
	}
	if got := findCeiling([]int{}, 5, key); got != -1 {
		t.Errorf("findCeiling on empty = %v, want -1", got)
	}
}
