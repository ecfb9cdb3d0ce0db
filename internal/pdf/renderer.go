// Package pdf renders invoice and quotation documents to PDF through a
// headless Chrome instance.
package pdf

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"facture/entity"
	appconfig "facture/internal/config"
	"facture/lib/sl"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4 paper in inches, margins sized for the invoice layout.
const (
	paperWidth   = 8.27
	paperHeight  = 11.69
	paperMargin  = 0.4
	defaultScale = 1.0
)

type Renderer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	timeout     time.Duration
	log         *slog.Logger
}

func New(conf *appconfig.Config, log *slog.Logger) *Renderer {
	r := &Renderer{
		timeout: time.Duration(conf.Pdf.Timeout) * time.Second,
		log:     log.With(sl.Module("pdf")),
	}

	if conf.Pdf.RemoteUrl != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), conf.Pdf.RemoteUrl)
		return r
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if conf.Pdf.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return r
}

func (r *Renderer) Close() {
	if r.allocCancel != nil {
		r.allocCancel()
	}
}

// Render lays out the document snapshot as HTML and prints it to PDF.
func (r *Renderer) Render(ctx context.Context, doc *entity.DocumentRender) ([]byte, error) {
	html, err := layout(doc)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx)
	defer browserCancel()

	var data []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdfData, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(paperMargin).
				WithMarginRight(paperMargin).
				WithMarginBottom(paperMargin).
				WithMarginLeft(paperMargin).
				WithScale(defaultScale).
				Do(ctx)
			if err != nil {
				return err
			}
			data = pdfData
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("rendered PDF is empty")
	}

	r.log.Debug("document rendered",
		slog.String("reference", doc.Reference),
		slog.Int("bytes", len(data)),
	)
	return data, nil
}
