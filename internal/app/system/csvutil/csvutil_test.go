package csvutil

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFilename(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"default", "/export.csv", "volunteers_20240309_140507.csv"},
		{"given with suffix", "/export.csv?filename=roster.csv", "roster.csv"},
		{"given without suffix", "/export.csv?filename=roster", "roster.csv"},
		{"upper-case suffix", "/export.csv?filename=ROSTER.CSV", "ROSTER.CSV"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if got := Filename(r, "volunteers", now); got != tt.want {
				t.Errorf("Filename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStartDownload(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := StartDownload(rec, "my roster.csv")
	_ = cw.Write([]string{"name", "email"})
	_ = cw.Write([]string{"Ann, Jr.", "ann@example.com"})
	cw.Flush()

	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="my%20roster.csv"` {
		t.Errorf("Content-Disposition = %q", cd)
	}

	body := rec.Body.String()
	if !strings.HasPrefix(body, "\ufeff") {
		t.Error("expected UTF-8 BOM")
	}
	want := "\ufeffname,email\r\n\"Ann, Jr.\",ann@example.com\r\n"
	if body != want {
		t.Errorf("body = %q, want %q", body, want)
	}
}

func TestSafeCell(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"=SUM(A1:A2)", "'=SUM(A1:A2)"},
		{"+1 402 555", "'+1 402 555"},
		{"-3", "'-3"},
		{"@cmd", "'@cmd"},
		{"a=b", "a=b"},
	}
	for _, tt := range tests {
		if got := SafeCell(tt.in); got != tt.want {
			t.Errorf("SafeCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	row := SafeRow("ok", "=bad")
	if row[0] != "ok" || row[1] != "'=bad" {
		t.Errorf("SafeRow = %v", row)
	}
}
