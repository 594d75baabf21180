package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"absensi/internal/session"
)

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Sanitize collapses whitespace and non-alphanumeric runs into single
// underscores so titles are safe in downloaded file names.
func Sanitize(s string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(s, "_"), "_")
}

// PDFFilename builds the deterministic report name:
// Laporan_Absensi_{kind}_{title}_{date}.pdf.
func PDFFilename(sess session.Session, now time.Time) string {
	return fmt.Sprintf("Laporan_Absensi_%s_%s_%s.pdf", sess.Kind.Label(), Sanitize(sess.Title), now.Format("2006-01-02"))
}

// CSVFilename builds Absensi_{kind}_{title}.csv.
func CSVFilename(sess session.Session) string {
	return fmt.Sprintf("Absensi_%s_%s.csv", sess.Kind.Label(), Sanitize(sess.Title))
}

// FlyerFilename builds QR-{title}.png for the downloadable flyer.
func FlyerFilename(title string) string {
	return "QR-" + Sanitize(title) + ".png"
}
