package model

import "time"

// LookupRequest is one queued Carte Funciara lookup. Immutable once
// created; the queue rejects structurally equal duplicates.
type LookupRequest struct {
	ID              string    `json:"id"`
	County          string    `json:"county"`
	CountyID        int       `json:"county_id"`
	UAT             string    `json:"uat"`
	UATID           int       `json:"uat_id"`
	CadastralNumber int64     `json:"cadastral_number"`
	QueryURL        string    `json:"query_url"`
	CreatedAt       time.Time `json:"created_at"`
}

// Equal reports structural equality of the lookup itself, ignoring the
// assigned ID, derived URL and timestamps.
func (r LookupRequest) Equal(other LookupRequest) bool {
	return r.County == other.County &&
		r.CountyID == other.CountyID &&
		r.UAT == other.UAT &&
		r.UATID == other.UATID &&
		r.CadastralNumber == other.CadastralNumber
}

// Vertex is a single projected boundary point in WGS84.
//
// Lat is geographic latitude (roughly 43..48 inside Romania) and Lon is
// geographic longitude (roughly 20..30). The exported table's Lat/Long
// columns follow the same convention.
type Vertex struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ParcelResult is the outcome of processing one LookupRequest.
//
// A failed fetch or transform leaves Vertices empty and Central nil and
// records the reason in Err; such results contribute zero rows to the
// output but stay in the slice so the batch summary is complete.
type ParcelResult struct {
	Request  LookupRequest `json:"request"`
	Vertices []Vertex      `json:"vertices"`
	Central  *Vertex       `json:"central,omitempty"`
	Err      string        `json:"error,omitempty"`
}

// HasData reports whether the result carries usable geometry.
func (p ParcelResult) HasData() bool {
	return p.Central != nil && len(p.Vertices) > 0
}

// VertexRow is one exported output row: a single boundary vertex plus
// the owning record's scalar fields repeated on every row.
type VertexRow struct {
	County          string  `json:"county"`
	UAT             string  `json:"uat"`
	CadastralNumber int64   `json:"cadastral_number"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
	CentralLat      float64 `json:"central_lat"`
	CentralLon      float64 `json:"central_lon"`
	VertexLink      string  `json:"maps_link"`
	CentralLink     string  `json:"maps_link_central"`
}

// OutputColumns is the exported table header, in contract order.
// Downstream consumers key on these names; do not reorder.
var OutputColumns = []string{
	"County",
	"Local UAT",
	"Cadastral number",
	"Lat",
	"Long",
	"Central_Lat",
	"Central_Lon",
	"Google Maps Link",
	"Google Maps Link - Central Point",
}
