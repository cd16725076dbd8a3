// Package dbase reads and writes dBase-family database files (dBase III,
// dBase IV and Visual FoxPro 9), together with their companion memo files
// (.dbt / .fpt).
//
// The package is built around a single handle type, File, returned by Open
// or Create. Records are read in batches with a persistent cursor and
// appended at the end of the file; existing records cannot be modified in
// place and memo fields cannot be written, only read.
//
// Character encoding is pluggable: the Transcoder interface abstracts the
// external capability of converting bytes to text for a named encoding
// label, and the FileSystem interface abstracts random-access file I/O, so
// both can be swapped for testing or for non-default backends.
package dbase
