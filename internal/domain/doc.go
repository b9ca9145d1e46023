// Package domain models the Palmer penguins observation data and the
// interaction state of the scatter plot built from it.
//
// # Data Source
//
// Observations come from the cleaned Palmer penguins CSV published at
// https://raw.githubusercontent.com/dataprofessor/data/master/penguins_cleaned.csv.
// The header row is:
//
//	species,island,bill_length_mm,bill_depth_mm,flipper_length_mm,body_mass_g,sex
//
// Columns are located by name, so reordered files are accepted.
//
// Numeric columns:
//
//	bill_length_mm, bill_depth_mm, flipper_length_mm and body_mass_g are
//	coerced to float64 after trimming surrounding whitespace. Every other
//	column stays text. A row with an empty or unparseable numeric value is
//	rejected and counted in the [LoadReport] rather than carried as NaN.
//
// # Load State
//
// A dataset is either still loading, ready, or failed. The three are
// distinct values of [LoadState]; a failed fetch never looks like a
// dataset that is still on its way.
//
// # Hover State
//
// The plot highlights one species at a time. [HoverState] is either idle
// or focused on a single category. Transitions are total and idempotent:
// entering a category always focuses it, exiting always returns to idle.
// Entering the empty category is the same as exiting.
package domain
