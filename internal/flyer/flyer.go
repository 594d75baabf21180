// Package flyer composites the printable QR check-in flyer: an A4-portrait
// raster with the session title, the QR code, an optional session info
// panel, and a scan instruction footer.
package flyer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// A4 portrait at 200 DPI print target.
const (
	pageWidth  = 1654
	pageHeight = 2339
	margin     = 150
	qrSize     = 550
	rowHeight  = 65
)

var (
	colorInk     = mustHex("#0f172a")
	colorMuted   = mustHex("#64748b")
	colorDivider = mustHex("#e2e8f0")
	colorBorder  = mustHex("#cbd5e1")
	colorPanel   = mustHex("#f8fafc")
	colorQRDark  = mustHex("#1e293b")
)

// InfoRow is one label/value pair in the session info panel. Rows render
// top to bottom in the order supplied.
type InfoRow struct {
	Label string
	Value string
}

// Render composites the flyer. checkinURL is encoded into the QR verbatim;
// nothing is re-derived at render time. The info panel is omitted when no
// rows are supplied and grows with the row count otherwise.
func Render(checkinURL, title string, info []InfoRow) (image.Image, error) {
	qr, err := qrcode.New(checkinURL, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	qr.ForegroundColor = colorQRDark
	qr.BackgroundColor = color.White

	dc := gg.NewContext(pageWidth, pageHeight)
	dc.SetColor(color.White)
	dc.Clear()

	y := float64(margin + 50)

	// Header
	dc.SetFontFace(boldFace(60))
	dc.SetColor(colorInk)
	dc.DrawStringAnchored(title, pageWidth/2, y+30, 0.5, 0.5)
	y += 90

	dc.SetFontFace(regularFace(30))
	dc.SetColor(colorMuted)
	dc.DrawStringAnchored("QR Code Absensi", pageWidth/2, y+15, 0.5, 0.5)
	y += 80

	drawDivider(dc, y)
	y += 100

	// QR code, bordered and centered
	qrX := float64(pageWidth-qrSize) / 2
	dc.SetColor(colorBorder)
	dc.SetLineWidth(3)
	dc.DrawRectangle(qrX-20, y-20, qrSize+40, qrSize+40)
	dc.Stroke()
	dc.DrawImage(qr.Image(qrSize), int(qrX), int(y))
	y += qrSize + 100

	if len(info) > 0 {
		y = drawInfoPanel(dc, y, info)
	}

	// Footer
	y = pageHeight - margin - 120
	dc.SetFontFace(regularFace(26))
	dc.SetColor(colorMuted)
	dc.DrawStringAnchored("Scan QR code di atas untuk melakukan absensi", pageWidth/2, y+13, 0.5, 0.5)
	y += 70
	drawDivider(dc, y)

	return dc.Image(), nil
}

// RenderPNG is Render with PNG encoding.
func RenderPNG(checkinURL, title string, info []InfoRow) ([]byte, error) {
	img, err := Render(checkinURL, title, info)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawInfoPanel renders the "Informasi Sesi" block. The panel height scales
// with however many rows are supplied.
func drawInfoPanel(dc *gg.Context, y float64, info []InfoRow) float64 {
	dc.SetFontFace(boldFace(40))
	dc.SetColor(colorInk)
	dc.DrawStringAnchored("Informasi Sesi", pageWidth/2, y+20, 0.5, 0.5)
	y += 70

	const padding = 80
	panelX := float64(margin + padding)
	panelW := float64(pageWidth - 2*margin - 2*padding)
	panelH := float64(len(info)*rowHeight + 80)

	dc.SetColor(colorPanel)
	dc.DrawRoundedRectangle(panelX, y, panelW, panelH, 20)
	dc.FillPreserve()
	dc.SetColor(colorBorder)
	dc.SetLineWidth(2)
	dc.Stroke()

	y += 50
	bulletX := panelX + 50
	labelX := bulletX + 80
	valueX := panelX + panelW - 50

	for _, row := range info {
		baseline := y + 35

		dc.SetFontFace(regularFace(30))
		dc.SetColor(colorInk)
		dc.DrawStringAnchored("•", bulletX, baseline, 0, 0.5)

		dc.SetColor(colorMuted)
		dc.DrawStringAnchored(row.Label, labelX, baseline, 0, 0.5)

		dc.SetFontFace(boldFace(30))
		dc.SetColor(colorInk)
		dc.DrawStringAnchored(row.Value, valueX, baseline, 1, 0.5)

		y += rowHeight
	}
	return y + 50
}

func drawDivider(dc *gg.Context, y float64) {
	dc.SetColor(colorDivider)
	dc.SetLineWidth(2)
	dc.DrawLine(margin+200, y, pageWidth-margin-200, y)
	dc.Stroke()
}

func regularFace(size float64) font.Face { return face(goregular.TTF, size) }
func boldFace(size float64) font.Face    { return face(gobold.TTF, size) }

func face(ttf []byte, size float64) font.Face {
	f, err := truetype.Parse(ttf)
	if err != nil {
		// The embedded Go fonts always parse.
		panic(err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: size})
}

func mustHex(s string) color.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		panic(err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
