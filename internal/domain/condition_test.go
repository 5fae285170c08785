package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCondition(t *testing.T) {
	tests := []struct {
		symbol int
		want   string
	}{
		{0, "clear-night"},
		{1, "sunny"},
		{3, "cloudy"},
		{31, "rainy"},
		{33, "pouring"},
		{52, "snowy"},
		{62, "lightning-rainy"},
		{91, "fog"},
		{999, ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Condition(tc.symbol), "symbol %d", tc.symbol)
	}
}

func TestCompassPoint(t *testing.T) {
	tests := []struct {
		degrees float64
		want    string
	}{
		{0, "N"},
		{23, "N"},
		{45, "NE"},
		{90, "E"},
		{135, "SE"},
		{180, "S"},
		{225, "SW"},
		{270, "W"},
		{315, "NW"},
		{339, "N"},
		{360, "N"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, CompassPoint(&tc.degrees), "%v degrees", tc.degrees)
	}
}

func TestCompassPoint_Missing(t *testing.T) {
	assert.Empty(t, CompassPoint(nil))
}
