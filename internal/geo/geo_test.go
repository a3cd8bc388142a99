package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Distance_BetweenKnownCities(t *testing.T) {
	milan := Point{Lon: 9.19, Lat: 45.4642}
	rome := Point{Lon: 12.4964, Lat: 41.9028}

	d := Distance(milan, rome)

	assert.InDelta(t, 477000, d, 5000)
}

func Test_Distance_SamePoint_ShouldBeZero(t *testing.T) {
	p := Point{Lon: 9.19, Lat: 45.4642}

	assert.Zero(t, Distance(p, p))
}

func Test_CloseRing_WhenOpen_ShouldAppendFirstPoint(t *testing.T) {
	ring := []Point{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 1, Lat: 1}}

	closed := CloseRing(ring)

	assert.Len(t, closed, 4)
	assert.True(t, closed[0].Equal(closed[len(closed)-1]))
	assert.Len(t, ring, 3)
}

func Test_CloseRing_WhenAlreadyClosed_ShouldReturnUnchanged(t *testing.T) {
	ring := []Point{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 1, Lat: 1}, {Lon: 0, Lat: 0}}

	closed := CloseRing(ring)

	assert.Equal(t, ring, closed)
}

func Test_InRing_PointInside(t *testing.T) {
	ring := CloseRing([]Point{{Lon: 0, Lat: 0}, {Lon: 2, Lat: 0}, {Lon: 2, Lat: 2}, {Lon: 0, Lat: 2}})

	assert.True(t, InRing(Point{Lon: 1, Lat: 1}, ring))
}

func Test_InRing_PointOutside(t *testing.T) {
	ring := CloseRing([]Point{{Lon: 0, Lat: 0}, {Lon: 2, Lat: 0}, {Lon: 2, Lat: 2}, {Lon: 0, Lat: 2}})

	assert.False(t, InRing(Point{Lon: 3, Lat: 1}, ring))
	assert.False(t, InRing(Point{Lon: -1, Lat: -1}, ring))
}
