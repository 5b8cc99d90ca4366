// Package exporter serializes the consolidated master dataset for
// download.
//
// Two formats are supported:
//
// CSV: semicolon-separated, UTF-8 with BOM so the files open cleanly in
// Brazilian-locale Excel. Column headers match the dataset column names
// served by the JSON API.
//
// XLSX: a single "Dataset" sheet written with excelize, same column
// order as the CSV.
package exporter
