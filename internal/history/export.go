package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"htrack/internal/i18n"
	"htrack/internal/logging"
	"htrack/internal/nav"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

// ErrUnknownFormat is returned for export paths that are neither .csv nor
// .pdf.
var ErrUnknownFormat = errors.New("history: unknown export format")

func (h *History) exportCards(msgs *i18n.Printer) []Card {
	meals := h.Filtered()
	cards := make([]Card, len(meals))
	for i, m := range meals {
		cards[i] = cardFor(msgs, h.opts.Location, m)
	}
	return cards
}

func exportHeader(msgs *i18n.Printer) []string {
	return []string{
		msgs.T(i18n.MsgColDate),
		msgs.T(i18n.MsgFieldTime),
		msgs.T(i18n.MsgFieldMealType),
		msgs.T(i18n.MsgMealsColumn),
		msgs.T(i18n.MsgFieldNotes),
	}
}

func exportRow(c Card) []string {
	return []string{c.Date, c.Time, c.TypeLabel, c.Summary(), c.Notes}
}

// ExportCSV writes the filtered meals, across all pages, as CSV and returns
// how many were written.
func (h *History) ExportCSV(w io.Writer) (int, error) {
	cards := h.exportCards(h.msgs)
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader(h.msgs)); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range cards {
		if err := cw.Write(exportRow(c)); err != nil {
			return 0, fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	return len(cards), nil
}

var pdfColumns = []float64{25, 15, 30, 85, 35}

// ExportPDF writes the filtered meals as a PDF table. Without a configured
// TTF font the core Helvetica font is used, which cannot draw Hebrew, so
// headers fall back to English and other text is transliterated to
// cp1252.
func (h *History) ExportPDF(w io.Writer) (int, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	msgs := h.msgs
	family := "Helvetica"
	tr := func(s string) string { return s }
	if h.opts.PDFFont != "" {
		family = "htrack"
		pdf.AddUTF8Font(family, "", h.opts.PDFFont)
	} else {
		msgs = i18n.NewPrinter(i18n.English)
		tr = pdf.UnicodeTranslatorFromDescriptor("")
	}
	cards := h.exportCards(msgs)
	pdf.SetTitle(msgs.T(i18n.MsgPageHistory), true)
	pdf.AddPage()

	pdf.SetFont(family, "", 14)
	pdf.CellFormat(0, 10, tr(msgs.T(i18n.MsgPageHistory)), "", 1, "L", false, 0, "")

	pdf.SetFont(family, "", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, col := range exportHeader(msgs) {
		pdf.CellFormat(pdfColumns[i], 7, tr(col), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	for _, c := range cards {
		for i, cell := range exportRow(c) {
			pdf.CellFormat(pdfColumns[i], 6, tr(truncate(cell, pdfColumns[i])), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return 0, fmt.Errorf("render pdf: %w", err)
	}
	return len(cards), nil
}

// truncate keeps roughly as many characters as fit a column of width mm at
// 9pt.
func truncate(s string, width float64) string {
	limit := int(width / 1.9)
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}

// ExportFile writes the filtered meals to path, choosing CSV or PDF by
// extension. The list state is not touched.
func (h *History) ExportFile(path string) (nav.Alert, error) {
	var write func(io.Writer) (int, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		write = h.ExportCSV
	case ".pdf":
		write = h.ExportPDF
	default:
		return nav.Failure(h.msgs.T(i18n.MsgExportFailed)), fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return nav.Failure(h.msgs.T(i18n.MsgExportFailed)), fmt.Errorf("create export file: %w", err)
	}
	n, err := write(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		h.logger.Warn("exporting meals", zap.String("path", path), zap.Error(err))
		return nav.Failure(h.msgs.T(i18n.MsgExportFailed)), err
	}
	h.logger.Info("meals exported", zap.String("path", path), zap.Int("meals", n))
	h.opts.Audit.Record(logging.AuditMealsExported, zap.String("path", path), zap.Int("meals", n))
	return nav.Success(h.msgs.T(i18n.MsgExported, n, path)), nil
}
