// internal/app/system/csvutil/limits.go
package csvutil

// MaxRows caps the rows written by a single export.
const MaxRows = 20000
