package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Egidiu/cadastral-cli/internal/model"
)

func TestMapsLink(t *testing.T) {
	assert.Equal(t, "https://maps.google.com/?q=44.5,25.25", MapsLink(44.5, 25.25))
	assert.Equal(t, "https://maps.google.com/?q=-44.5,0", MapsLink(-44.5, 0))
}

func TestFlatten(t *testing.T) {
	req := model.LookupRequest{County: "Arges", UAT: "Ungheni", CadastralNumber: 12476}
	results := []model.ParcelResult{{
		Request: req,
		Vertices: []model.Vertex{
			{Lat: 44.1, Lon: 25.1},
			{Lat: 44.2, Lon: 25.2},
		},
		Central: &model.Vertex{Lat: 44.15, Lon: 25.15},
	}}

	rows := Flatten(results)
	require.Len(t, rows, 2)

	for _, row := range rows {
		assert.Equal(t, "Arges", row.County)
		assert.Equal(t, "Ungheni", row.UAT)
		assert.Equal(t, int64(12476), row.CadastralNumber)
		assert.Equal(t, 44.15, row.CentralLat, "centroid repeated on every row")
		assert.Equal(t, 25.15, row.CentralLon)
		assert.Equal(t, MapsLink(44.15, 25.15), row.CentralLink)
	}

	assert.Equal(t, 44.1, rows[0].Lat)
	assert.Equal(t, 25.1, rows[0].Lon)
	assert.Equal(t, MapsLink(44.1, 25.1), rows[0].VertexLink)
	assert.Equal(t, 44.2, rows[1].Lat)
}

func TestFlatten_AbsentRecordContributesZeroRows(t *testing.T) {
	results := []model.ParcelResult{
		{Request: model.LookupRequest{CadastralNumber: 1}, Err: "ancpi: http status 404"},
		{
			Request:  model.LookupRequest{CadastralNumber: 2},
			Vertices: []model.Vertex{{Lat: 44.1, Lon: 25.1}},
			Central:  &model.Vertex{Lat: 44.1, Lon: 25.1},
		},
		{Request: model.LookupRequest{CadastralNumber: 3}, Err: "empty geometry"},
	}

	rows := Flatten(results)
	require.Len(t, rows, 1, "failed records skip silently, the rest project")
	assert.Equal(t, int64(2), rows[0].CadastralNumber)
}

func TestFlatten_Empty(t *testing.T) {
	assert.Empty(t, Flatten(nil))
	assert.Empty(t, Flatten([]model.ParcelResult{}))
}

func TestSummary(t *testing.T) {
	req := model.LookupRequest{County: "Gorj", UAT: "Pades", CadastralNumber: 39107}

	ok := model.ParcelResult{Request: req, Vertices: make([]model.Vertex, 7), Central: &model.Vertex{}}
	assert.Equal(t, "Gorj / Pades / 39107: 7 vertices", Summary(ok))

	failed := model.ParcelResult{Request: req, Err: "ancpi: http status 404"}
	assert.Equal(t, "Gorj / Pades / 39107: no data (ancpi: http status 404)", Summary(failed))
}
