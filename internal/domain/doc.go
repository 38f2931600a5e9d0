// Package domain models a single current-weather observation as it moves
// through the extract-transform-load steps.
//
// # Data Source
//
// Observations come from the OpenWeather current-weather endpoint
// (https://openweathermap.org/current). The extract step stores the response
// body untouched; only the transform step interprets it.
//
// # OpenWeather Conventions
//
// Fields read by the transform:
//
//	name                    city name as resolved by OpenWeather, e.g. "London"
//	main.temp               temperature; Kelvin unless the request sets units
//	main.humidity           relative humidity, percent (integer)
//	main.pressure           sea-level pressure, hPa (integer)
//	weather[0].description  human-readable condition, e.g. "light rain"
//
// The weather array can hold more than one condition; the first is primary.
//
// # Number Fidelity
//
// Numeric fields are decoded as [encoding/json.Number] and written to CSV
// verbatim, so "282.55" stays "282.55" and "81" stays "81". No unit
// conversion or rounding happens anywhere in the pipeline.
//
// # CSV Layout
//
// The transformed file has exactly two lines: the header
// "city,temperature,humidity,pressure,weather" and one data row.
package domain
