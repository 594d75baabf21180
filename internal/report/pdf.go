package report

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"absensi/internal/attendance"
	"absensi/internal/session"
)

// Page geometry in millimeters on A4 portrait.
const (
	marginLeft   = 14.0
	marginRight  = 14.0
	pageBreakY   = 272.0
	minRowHeight = 12.0
	lineHeight   = 4.0
)

// Letterhead of the issuing office, first page only.
var letterheadLines = []struct {
	text string
	size float64
	bold bool
}{
	{"KEMENTERIAN IMIGRASI DAN PEMASYARAKATAN REPUBLIK INDONESIA", 9, true},
	{"DIREKTORAT JENDERAL IMIGRASI", 10, true},
	{"KANTOR WILAYAH KALIMANTAN TIMUR", 10, true},
	{"KANTOR IMIGRASI KELAS II TPI TARAKAN", 10, true},
	{"Jl. P. Sumatera No.1, Kec Tarakan Tengah, Kota Tarakan, Kalimantan Utara", 8, false},
	{"Telepon: 0811-8773-337, Faxsimili: -", 8, false},
	{"Laman: tarakan.imigrasi.go.id, Pos-el: kanim_tarakan@imigrasi.go.id", 8, false},
}

// PDFOptions carries the optional letterhead logo (nil to omit) and the
// clock used for the filename date.
type PDFOptions struct {
	Logo []byte
	Now  time.Time
}

// ExportPDF renders the attendance report and returns the document bytes
// with its deterministic filename.
func ExportPDF(sess session.Session, rows []attendance.Record, opts PDFOptions) ([]byte, string, error) {
	doc, err := BuildPDF(sess, rows, opts)
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, "", err
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	return buf.Bytes(), PDFFilename(sess, now), nil
}

// BuildPDF assembles the document: letterhead (first page only), title,
// session metadata block, the paginated attendee table with signature
// thumbnails, and a page-numbered footer on every page.
func BuildPDF(sess session.Session, rows []attendance.Record, opts PDFOptions) (*gofpdf.Fpdf, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Laporan Daftar Hadir", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 6, fmt.Sprintf("Halaman %d dari {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	pdf.AddPage()

	drawLetterhead(pdf, opts.Logo)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, 48)
	pdf.CellFormat(210-marginLeft-marginRight, 8, "LAPORAN DAFTAR HADIR", "", 0, "C", false, 0, "")

	y := drawMetadata(pdf, sess, len(rows))
	drawTable(pdf, sess.Kind, rows, y+3)

	if pdf.Err() {
		return nil, pdf.Error()
	}
	return pdf, nil
}

func drawLetterhead(pdf *gofpdf.Fpdf, logo []byte) {
	if len(logo) > 0 {
		if cfg, format, err := image.DecodeConfig(bytes.NewReader(logo)); err == nil {
			opts := gofpdf.ImageOptions{ImageType: strings.ToUpper(format)}
			pdf.RegisterImageOptionsReader("letterhead-logo", opts, bytes.NewReader(logo))
			h := 24.0
			w := h * float64(cfg.Width) / float64(cfg.Height)
			pdf.ImageOptions("letterhead-logo", marginLeft, 10, w, h, false, opts, 0, "")
		} else {
			log.Printf("report: letterhead logo not drawable: %v", err)
		}
	}

	y := 12.0
	for _, line := range letterheadLines {
		style := ""
		if line.bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, line.size)
		pdf.SetXY(marginLeft, y-4)
		pdf.CellFormat(210-marginLeft-marginRight, 5, line.text, "", 0, "C", false, 0, "")
		if line.bold {
			y += 5
		} else {
			y += 4
		}
	}

	pdf.SetLineWidth(0.8)
	pdf.Line(marginLeft, 44, 210-marginRight, 44)
	pdf.SetLineWidth(0.3)
	pdf.Line(marginLeft, 45.5, 210-marginRight, 45.5)
}

// drawMetadata renders the boxed key/value block under the title and
// returns the y position below it. Optional fields add rows; the
// description wraps and grows the block accordingly.
func drawMetadata(pdf *gofpdf.Fpdf, sess session.Session, attendeeCount int) float64 {
	y := 60.0
	kv := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.Text(marginLeft, y, label)
		pdf.SetFont("Helvetica", "", 9)
		pdf.Text(45, y, ": "+value)
		y += 5
	}

	kv("Judul Rapat", sess.Title)

	if sess.Description != nil && *sess.Description != "" {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.Text(marginLeft, y, "Deskripsi")
		pdf.SetFont("Helvetica", "", 9)
		lines := pdf.SplitText(": "+*sess.Description, 150)
		for _, line := range lines {
			pdf.Text(45, y, line)
			y += 5
		}
	}
	if sess.Location != nil && *sess.Location != "" {
		kv("Lokasi", *sess.Location)
	}

	kv("Hari/Tanggal", IndonesianDate(sess.StartTime))

	end := "selesai"
	if sess.EndTime != nil {
		end = sess.EndTime.Format("15.04")
	}
	kv("Waktu", fmt.Sprintf("%s - %s WIB", sess.StartTime.Format("15.04"), end))
	kv("Jumlah Peserta", fmt.Sprintf("%d orang", attendeeCount))

	return y
}

type column struct {
	header string
	width  float64
	align  string
}

func columnsFor(kind session.Kind) []column {
	if kind == session.KindEmployee {
		return []column{
			{"No", 10, "C"},
			{"NIP", 35, "L"},
			{"Nama Lengkap", 50, "L"},
			{"Jabatan", 50, "L"},
			{"Tanda Tangan", 37, "C"},
		}
	}
	return []column{
		{"No", 10, "C"},
		{"Nama Lengkap", 50, "L"},
		{"Instansi", 45, "L"},
		{"Jabatan", 40, "L"},
		{"Tanda Tangan", 37, "C"},
	}
}

func cellsFor(kind session.Kind, i int, rec attendance.Record) []string {
	no := strconv.Itoa(i + 1)
	if kind == session.KindEmployee {
		f := rec.Employee
		if f == nil {
			f = &attendance.EmployeeFields{}
		}
		return []string{no, f.NIP, f.FullName, f.Position, ""}
	}
	f := rec.External
	if f == nil {
		f = &attendance.ExternalFields{}
	}
	return []string{no, f.FullName, f.Institution, f.Position, ""}
}

// drawTable paginates the attendee rows. The header renders once, on the
// first page; continuation pages carry body rows only and never split a
// row across a break.
func drawTable(pdf *gofpdf.Fpdf, kind session.Kind, rows []attendance.Record, y float64) {
	cols := columnsFor(kind)

	x := marginLeft
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(41, 128, 185)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetXY(x, y)
	for _, col := range cols {
		pdf.CellFormat(col.width, 8, col.header, "1", 0, "C", true, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	y += 8

	pdf.SetFont("Helvetica", "", 8)
	for i, rec := range rows {
		cells := cellsFor(kind, i, rec)

		// Row height grows with the longest wrapped cell, with room
		// for the signature either way.
		rowH := minRowHeight
		var wrapped [][]string
		for c, col := range cols {
			lines := pdf.SplitText(cells[c], col.width-3)
			wrapped = append(wrapped, lines)
			if h := float64(len(lines))*lineHeight + 4; h > rowH {
				rowH = h
			}
		}

		if y+rowH > pageBreakY {
			pdf.AddPage()
			y = 12
		}

		x = marginLeft
		for c, col := range cols {
			pdf.Rect(x, y, col.width, rowH, "D")
			textY := y + 5
			for _, line := range wrapped[c] {
				switch col.align {
				case "C":
					pdf.SetXY(x, textY-3.5)
					pdf.CellFormat(col.width, lineHeight, line, "", 0, "C", false, 0, "")
				default:
					pdf.Text(x+1.5, textY, line)
				}
				textY += lineHeight
			}
			x += col.width
		}

		drawSignature(pdf, rec, x-cols[len(cols)-1].width, y, cols[len(cols)-1].width, rowH)
		y += rowH
	}
}

// drawSignature decodes the stored signature bitmap and centers it in the
// cell. A missing or malformed signature leaves the cell blank; a bad image
// must never abort the whole export.
func drawSignature(pdf *gofpdf.Fpdf, rec attendance.Record, x, y, w, h float64) {
	if rec.Signature == "" {
		return
	}
	data, err := decodeSignature(rec.Signature)
	if err != nil {
		log.Printf("report: skipping signature for row %s: %v", rec.ID, err)
		return
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		log.Printf("report: skipping signature for row %s: %v", rec.ID, err)
		return
	}

	boxW, boxH := w-6, h-4
	imgW := boxH * float64(cfg.Width) / float64(cfg.Height)
	imgH := boxH
	if imgW > boxW {
		imgH = imgH * boxW / imgW
		imgW = boxW
	}

	opts := gofpdf.ImageOptions{ImageType: strings.ToUpper(format)}
	name := "sig-" + rec.ID
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	pdf.ImageOptions(name, x+(w-imgW)/2, y+(h-imgH)/2, imgW, imgH, false, opts, 0, "")
}

// decodeSignature strips the data-URL prefix and base64-decodes the bitmap.
func decodeSignature(sig string) ([]byte, error) {
	payload := sig
	if strings.HasPrefix(sig, "data:") {
		idx := strings.Index(sig, ",")
		if idx < 0 {
			return nil, errors.New("malformed data URL")
		}
		payload = sig[idx+1:]
	}
	return base64.StdEncoding.DecodeString(payload)
}

var indonesianDays = []string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

var indonesianMonths = []string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// IndonesianDate formats t like the id-ID long date, e.g.
// "Senin, 2 Januari 2006". The standard library has no locale tables, so
// the day and month names are carried here.
func IndonesianDate(t time.Time) string {
	return fmt.Sprintf("%s, %d %s %d",
		indonesianDays[int(t.Weekday())], t.Day(), indonesianMonths[int(t.Month())-1], t.Year())
}
