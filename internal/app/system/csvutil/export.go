// internal/app/system/csvutil/export.go
package csvutil

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Filename returns the "filename" query param with a .csv suffix, or
// prefix_YYYYMMDD_HHMMSS.csv when none is given.
func Filename(r *http.Request, prefix string, now time.Time) string {
	filename := strings.TrimSpace(r.URL.Query().Get("filename"))
	if filename == "" {
		filename = prefix + "_" + now.UTC().Format("20060102_150405") + ".csv"
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		filename += ".csv"
	}
	return filename
}

// StartDownload writes attachment headers and a UTF-8 BOM (so Excel reads
// the file as Unicode) and returns a CRLF csv.Writer. Callers must Flush.
func StartDownload(w http.ResponseWriter, filename string) *csv.Writer {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))
	_, _ = w.Write([]byte{0xEF, 0xBB, 0xBF})

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	return cw
}

// SafeCell neutralises values a spreadsheet would evaluate as a formula.
func SafeCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

// SafeRow applies SafeCell to every value.
func SafeRow(values ...string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = SafeCell(v)
	}
	return out
}
