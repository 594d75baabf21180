package report

import (
	"strconv"
	"strings"

	"absensi/internal/attendance"
	"absensi/internal/session"
)

// checkinTimeLayout approximates the id-ID locale rendering of timestamps.
const checkinTimeLayout = "02/01/2006 15.04.05"

// ExportCSV renders the flat attendee list. Every field is double-quoted
// and the output starts with a UTF-8 byte-order mark so spreadsheet tools
// decode non-ASCII names correctly. Columns follow the PDF table minus the
// signature, which has no CSV representation, plus the check-in time.
func ExportCSV(sess session.Session, rows []attendance.Record) []byte {
	var b strings.Builder
	b.WriteString("\xEF\xBB\xBF")

	if sess.Kind == session.KindEmployee {
		b.WriteString("No,NIP,Nama Lengkap,Jabatan,Waktu Absen\n")
		for i, rec := range rows {
			f := rec.Employee
			if f == nil {
				f = &attendance.EmployeeFields{}
			}
			writeRow(&b, strconv.Itoa(i+1), f.NIP, f.FullName, f.Position, rec.CheckedInAt.Format(checkinTimeLayout))
		}
	} else {
		b.WriteString("No,Nama Lengkap,Instansi,Jabatan,No. Telepon,Waktu Absen\n")
		for i, rec := range rows {
			f := rec.External
			if f == nil {
				f = &attendance.ExternalFields{}
			}
			writeRow(&b, strconv.Itoa(i+1), f.FullName, f.Institution, f.Position, f.PhoneNumber, rec.CheckedInAt.Format(checkinTimeLayout))
		}
	}
	return []byte(b.String())
}

// writeRow quotes every field unconditionally, doubling embedded quotes.
// encoding/csv only quotes when it has to, and the consumers of these
// exports expect the fully quoted shape, so the row is written by hand.
func writeRow(b *strings.Builder, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

