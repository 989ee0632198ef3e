// Package system describes atomic structures fed to descriptor calculators.
//
// A System exposes species, positions, an optional periodic cell and a
// neighbor list computed on demand for a given cutoff. SimpleSystem is the
// in-memory native implementation; FromSystem copies any System into one so
// repeated neighbor queries stay inside Go memory.
package system
