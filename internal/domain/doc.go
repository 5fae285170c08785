// Package domain models Finnish Meteorological Institute (FMI) open data.
//
// # Data Source
//
// Weather and lightning data come from the FMI open data WFS 2.0 service at
// https://opendata.fmi.fi/wfs. The bridge uses three stored queries:
//
//	fmi::forecast::harmonie::surface::point::multipointcoverage   hourly forecast
//	fmi::observations::weather::multipointcoverage                latest observations
//	fmi::observations::lightning::multipointcoverage              lightning strikes
//
// # Multipointcoverage Format
//
// A multipointcoverage response pairs two whitespace-separated blocks:
//
//	positions:                  triplets of "<lat> <lon> <epoch-seconds>"
//	doubleOrNilReasonTupleList: one row of values per position, one column
//	                            per rangeType field, "NaN" for missing
//
// Row i of the tuple list belongs to triplet i of the positions block. The
// rangeType field names identify the columns (Temperature, Humidity, ...).
//
// # Weather Symbols
//
// FMI encodes conditions as numeric weather symbols (1 = clear, 3 = cloudy,
// 31 = light rain, ...). [Condition] maps them to the condition strings home
// automation platforms expect ("sunny", "cloudy", "rainy", ...). Symbol 0 is
// a project-specific value for clear night, not defined by FMI.
//
// # Lightning Fields
//
// Lightning strikes carry four range fields, in this column order:
//
//	multiplicity     number of strokes in the flash
//	peak_current     kiloamperes, sign gives polarity
//	cloud_indicator  1 for cloud-to-cloud, 0 for cloud-to-ground
//	ellipse_major    location accuracy ellipse major axis, km
//
// Strikes are reported for a bounding box around the configured coordinates,
// selected nearest-first up to a display cap, then ordered newest-first.
//
// # Best Time Of Day
//
// [BestTime] scans a single day's hourly forecast in order and picks the
// first record whose temperature, humidity, wind speed, and precipitation all
// fall inside the user's closed [min, max] comfort bounds. Records missing
// any of the four measurements never qualify. The earliest qualifying hour
// wins; if no hour qualifies the result is explicitly unavailable.
package domain
