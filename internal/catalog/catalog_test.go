package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"Fade", 45},
		{"Klasický střih", 30},
		{"Dětský fade", 45},
		{"Dětský klasický střih", 30},
		{"Vousy", 15},
		{"Mytí vlasů", 10},
		{"Kompletka", 70},

		{"Fade + Vousy", 65},
		{"Fade + Mytí vlasů", 55},
		{"Fade + Vousy + Mytí vlasů", 75},
		{"Klasický střih + Vousy", 45},
		{"Klasický střih + Mytí vlasů", 40},
		{"Klasický střih + Vousy + Mytí vlasů", 55},
		{"Dětský fade + Vousy", 60},
		{"Vousy + Vousy", 15},
		{"Vousy + Mytí vlasů", 25},
		{"Mytí vlasů + Mytí vlasů", 10},

		{"Kompletka + Vousy", 70},
		{"Kompletka + Vousy + Mytí vlasů", 70},

		{"Střih + vousy", 45},
		{"Fade + vousy", 65},
		{"  Fade + Vousy  ", 65},

		{"Holení hlavy", 30},
		{"", 30},
		{"Holení hlavy + Vousy", 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Duration(tt.name))
		})
	}
}

func TestDuration_FadeBeardOverride(t *testing.T) {
	assert.Equal(t, 65, Duration("Fade + Vousy"))
	assert.NotEqual(t, 45+15, Duration("Fade + Vousy"))
}

func TestDuration_FullPackageIsTerminal(t *testing.T) {
	assert.Equal(t, Duration("Kompletka"), Duration("Kompletka + Vousy"))
	assert.Equal(t, 70, Duration("Kompletka + Mytí vlasů"))
}

func TestDuration_LongestPrefixWins(t *testing.T) {
	// "Dětský klasický střih" must not be resolved as a shorter base
	q := Resolve("Dětský klasický střih + Vousy")
	assert.Equal(t, KidsClassicCut, q.Base)
	assert.Equal(t, 45, q.DurationMinutes)
}

func TestPrice(t *testing.T) {
	assert.Equal(t, 450, Price("Fade"))
	assert.Equal(t, 650, Price("Fade + Vousy"))
	assert.Equal(t, 750, Price("Fade + Vousy + Mytí vlasů"))
	assert.Equal(t, 700, Price("Kompletka + Vousy"))
	assert.Equal(t, 550, Price("Střih + vousy"))
	assert.Equal(t, 0, Price("Holení hlavy"))
}

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown("Fade + Vousy"))
	assert.True(t, IsKnown("Střih + vousy"))
	assert.False(t, IsKnown("Holení hlavy"))
}

func TestServices_ReturnsCopy(t *testing.T) {
	list := Services()
	list[0].DurationMinutes = 1

	assert.Equal(t, 45, Duration(Fade))
	assert.Len(t, list, 7)
}
