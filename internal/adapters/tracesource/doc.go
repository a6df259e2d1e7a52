// Package tracesource loads chromatogram traces from instrument exports.
//
// Three formats are understood, chosen by file extension:
//
//   - .cdf  netCDF classic (CDF-1 and 64-bit offset CDF-2) as written by ANDI/AIA
//     chromatography exports, reading scan_acquisition_time and total_intensity
//   - .csv, .tsv, .txt  two numeric columns, time then intensity
//   - .json  {"time": [...], "intensity": [...]} or a stored analysis record
//     carrying trace_data pairs
//
// Loaders only decode; trace validation happens in the core packages.
package tracesource
