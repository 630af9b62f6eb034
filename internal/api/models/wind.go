package models

// WindCurrent is the observed wind at the requested point. Speed and gusts
// are in m/s, direction in degrees the wind blows from.
type WindCurrent struct {
	Speed     float64 `json:"speed"`
	Direction float64 `json:"direction"`
	Gusts     float64 `json:"gusts"`
	Timestamp string  `json:"timestamp"`
}

// WindVector is one lattice node.
type WindVector struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	U         float64 `json:"u"`
	V         float64 `json:"v"`
	Speed     float64 `json:"speed"`
	Direction float64 `json:"direction"`
}

// VelocityHeader describes the lattice of a leaflet-velocity field.
type VelocityHeader struct {
	ParameterUnit   string  `json:"parameterUnit"`
	ParameterNumber int     `json:"parameterNumber"`
	Dx              float64 `json:"dx"`
	Dy              float64 `json:"dy"`
	Nx              int     `json:"nx"`
	Ny              int     `json:"ny"`
	La1             float64 `json:"la1"`
	La2             float64 `json:"la2"`
	Lo1             float64 `json:"lo1"`
	Lo2             float64 `json:"lo2"`
}

// VelocityRecordHeader identifies the GRIB parameter of a record.
type VelocityRecordHeader struct {
	ParameterCategory int `json:"parameterCategory"`
	ParameterNumber   int `json:"parameterNumber"`
}

// VelocityRecord is the [u, v] pair of one lattice node.
type VelocityRecord struct {
	Header VelocityRecordHeader `json:"header"`
	Data   [2]float64           `json:"data"`
}

// Velocity is the field in the layout leaflet-velocity consumes.
type Velocity struct {
	Header VelocityHeader   `json:"header"`
	Data   []VelocityRecord `json:"data"`
}

// WindResponse is returned by GET /api/wind.
type WindResponse struct {
	Current  WindCurrent  `json:"current"`
	Grid     []WindVector `json:"grid"`
	Velocity Velocity     `json:"velocity"`
}
