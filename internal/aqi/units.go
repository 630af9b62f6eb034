package aqi

// molarVolume is the volume in litres of one mole of gas at 25 °C and 1 atm.
const molarVolume = 24.45

var molecularWeight = map[Pollutant]float64{
	Ozone: 48.00,
	NO2:   46.01,
	SO2:   64.07,
	CO:    28.01,
}

// FromMicrograms converts a mass concentration in µg/m³ into the unit the
// breakpoint tables expect for p. Particulates are returned unchanged, gases
// are converted to ppb (ppm for CO).
func FromMicrograms(p Pollutant, ugm3 float64) float64 {
	mw, ok := molecularWeight[p]
	if !ok {
		return ugm3
	}
	ppb := ugm3 * molarVolume / mw
	if p == CO {
		return ppb / 1000
	}
	return ppb
}
