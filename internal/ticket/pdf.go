package ticket

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/signintech/gopdf"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	pageMarginX    = 40.0
	pageMarginTop  = 40.0
	pageMarginBot  = 50.0
	boxHeight      = 92.0
	boxGap         = 12.0
	qrSize         = 70.0
	posterMaxW     = 260.0
	posterMaxH     = 150.0
	watermarkSide  = 300.0
	fontFamily     = "brand"
	disclaimerText = "Tickets are non-transferable. Please present this ticket at the entrance."
)

// BuilderConfig configures a Builder.
type BuilderConfig struct {
	// Brand is printed in the document header.
	Brand string
	// WatermarkURL points at the image stamped on every page.
	WatermarkURL string
	// FontData is a TTF font registered for all text in the document.
	FontData []byte
	// Client is used for remote image fetches; a 10s-timeout client is used
	// when nil.
	Client *http.Client
}

// Builder turns ticket EmailData into a PDF document with one bordered,
// QR-coded box per individual ticket code.
type Builder struct {
	cfg BuilderConfig
}

// BuildResult is the outcome of a document build. Degraded lists best-effort
// steps that were skipped (watermark or poster fetch failures, line items
// without codes); the document itself is still complete and usable.
type BuildResult struct {
	PDF      []byte
	Degraded []string
}

// NewBuilder creates a Builder. FontData must be a valid TTF; it is
// registered per document, so an empty font is rejected here rather than on
// the first request.
func NewBuilder(cfg BuilderConfig) (*Builder, error) {
	if len(cfg.FontData) == 0 {
		return nil, fmt.Errorf("ticket builder requires TTF font data")
	}
	if cfg.Brand == "" {
		cfg.Brand = "RAEX Events"
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Builder{cfg: cfg}, nil
}

// Build renders the ticket document. Missing required fields or an empty
// tickets array fail before any network activity; remote image failures
// degrade the document instead of failing it.
func (b *Builder) Build(ctx context.Context, data EmailData) (BuildResult, error) {
	var res BuildResult
	if err := data.Validate(); err != nil {
		return res, err
	}

	var watermark []byte
	if b.cfg.WatermarkURL != "" {
		wm, err := b.fetchImage(ctx, b.cfg.WatermarkURL)
		if err != nil {
			log.Printf("ticket pdf: watermark fetch failed, continuing without: %v", err)
			res.Degraded = append(res.Degraded, "watermark: "+err.Error())
		} else {
			watermark = wm
		}
	}

	d := &doc{pdf: &gopdf.GoPdf{}, watermark: watermark}
	d.pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	if err := d.pdf.AddTTFFontData(fontFamily, b.cfg.FontData); err != nil {
		return res, fmt.Errorf("register font: %w", err)
	}
	d.newPage()

	d.setFontSize(22)
	d.pdf.SetTextColor(20, 20, 20)
	d.text(pageMarginX, pageMarginTop, b.cfg.Brand)
	d.setFontSize(16)
	d.text(pageMarginX, d.y+30, data.EventTitle)
	d.y += 58

	if data.EventPosterURL != "" {
		poster, err := b.fetchImage(ctx, data.EventPosterURL)
		if err != nil {
			log.Printf("ticket pdf: poster fetch failed, skipping: %v", err)
			res.Degraded = append(res.Degraded, "poster: "+err.Error())
		} else if err := d.placePoster(poster); err != nil {
			log.Printf("ticket pdf: poster unusable, skipping: %v", err)
			res.Degraded = append(res.Degraded, "poster: "+err.Error())
		}
	}

	d.setFontSize(11)
	d.pdf.SetTextColor(60, 60, 60)
	for _, line := range []string{
		"Attendee: " + data.Name,
		"Date: " + data.EventDate,
		"Time: " + data.EventTime,
		"Venue: " + data.EventVenue,
	} {
		d.text(pageMarginX, d.y, line)
		d.y += 16
	}
	d.y += 10

	for _, item := range data.Tickets {
		if len(item.Codes) == 0 {
			log.Printf("ticket pdf: line item %q has no codes, skipping", item.TicketType)
			res.Degraded = append(res.Degraded, fmt.Sprintf("line item %q: no codes", item.TicketType))
			continue
		}
		item = item.Normalize()
		for _, code := range item.Codes {
			if d.y+boxHeight > gopdf.PageSizeA4.H-pageMarginBot {
				d.newPage()
			}
			d.ticketBox(item, code, &res)
			d.y += boxHeight + boxGap
		}
	}

	if d.y+20 > gopdf.PageSizeA4.H-pageMarginBot {
		d.newPage()
	}
	d.setFontSize(9)
	d.pdf.SetTextColor(130, 130, 130)
	d.text(pageMarginX, d.y+6, disclaimerText)

	res.PDF = d.pdf.GetBytesPdf()
	return res, nil
}

func (b *Builder) fetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.cfg.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// doc tracks the vertical cursor and the per-page watermark stamp while a
// single document is being laid out.
type doc struct {
	pdf       *gopdf.GoPdf
	watermark []byte
	y         float64
}

func (d *doc) newPage() {
	d.pdf.AddPage()
	d.y = pageMarginTop
	if len(d.watermark) == 0 {
		return
	}
	holder, err := gopdf.ImageHolderByBytes(d.watermark)
	if err != nil {
		return
	}
	cx := gopdf.PageSizeA4.W / 2
	cy := gopdf.PageSizeA4.H / 2
	if err := d.pdf.SetTransparency(gopdf.Transparency{Alpha: 0.1, BlendModeType: gopdf.NormalBlendMode}); err == nil {
		d.pdf.Rotate(45.0, cx, cy)
		_ = d.pdf.ImageByHolder(holder, cx-watermarkSide/2, cy-watermarkSide/2, &gopdf.Rect{W: watermarkSide, H: watermarkSide})
		d.pdf.RotateReset()
		d.pdf.ClearTransparency()
	}
}

func (d *doc) setFontSize(size float64) {
	_ = d.pdf.SetFont(fontFamily, "", size)
}

func (d *doc) text(x, y float64, s string) {
	d.pdf.SetX(x)
	d.pdf.SetY(y)
	_ = d.pdf.Cell(nil, s)
}

// placePoster scales the poster proportionally into its bounding box and
// advances the cursor past it.
func (d *doc) placePoster(img []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return fmt.Errorf("decode poster: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return fmt.Errorf("poster has zero dimensions")
	}
	scale := posterMaxW / float64(cfg.Width)
	if h := posterMaxH / float64(cfg.Height); h < scale {
		scale = h
	}
	w := float64(cfg.Width) * scale
	h := float64(cfg.Height) * scale

	holder, err := gopdf.ImageHolderByBytes(img)
	if err != nil {
		return err
	}
	if err := d.pdf.ImageByHolder(holder, pageMarginX, d.y, &gopdf.Rect{W: w, H: h}); err != nil {
		return err
	}
	d.y += h + 16
	return nil
}

// ticketBox draws one bordered ticket box: QR code on the left, the fare
// details and the redemption code beside it.
func (d *doc) ticketBox(item LineItem, code string, res *BuildResult) {
	x := pageMarginX
	w := gopdf.PageSizeA4.W - 2*pageMarginX

	d.pdf.SetLineWidth(0.7)
	d.pdf.SetStrokeColor(40, 40, 40)
	d.pdf.RectFromUpperLeftWithStyle(x, d.y, w, boxHeight, "D")

	png, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		log.Printf("ticket pdf: qr encode failed for %q: %v", code, err)
		res.Degraded = append(res.Degraded, "qr "+code+": "+err.Error())
	} else if holder, err := gopdf.ImageHolderByBytes(png); err == nil {
		_ = d.pdf.ImageByHolder(holder, x+12, d.y+(boxHeight-qrSize)/2, &gopdf.Rect{W: qrSize, H: qrSize})
	}

	tx := x + 12 + qrSize + 14
	d.pdf.SetTextColor(20, 20, 20)
	d.setFontSize(13)
	d.text(tx, d.y+14, item.TicketType)
	d.setFontSize(10)
	d.pdf.SetTextColor(60, 60, 60)
	d.text(tx, d.y+34, fmt.Sprintf("Quantity: %d", item.Quantity))
	d.text(tx, d.y+50, "Amount: "+item.Amount)
	d.text(tx, d.y+66, "Code: "+code)
}
