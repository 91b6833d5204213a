package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupRequestEqual(t *testing.T) {
	a := LookupRequest{County: "Arges", CountyID: 36, UAT: "Ungheni", UATID: 19560, CadastralNumber: 12476}

	b := a
	b.ID = "different-id"
	b.QueryURL = "https://example.test/other"
	assert.True(t, a.Equal(b), "ID and URL must not affect equality")

	c := a
	c.CadastralNumber = 12477
	assert.False(t, a.Equal(c))

	d := a
	d.UATID = 19561
	assert.False(t, a.Equal(d))
}

func TestParcelResultHasData(t *testing.T) {
	empty := ParcelResult{Err: "http status 404"}
	assert.False(t, empty.HasData())

	noCentral := ParcelResult{Vertices: []Vertex{{Lat: 44.1, Lon: 25.0}}}
	assert.False(t, noCentral.HasData())

	full := ParcelResult{
		Vertices: []Vertex{{Lat: 44.1, Lon: 25.0}},
		Central:  &Vertex{Lat: 44.1, Lon: 25.0},
	}
	assert.True(t, full.HasData())
}
