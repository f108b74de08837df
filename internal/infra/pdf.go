package infra

// pdf.go — Invoice PDF generation using go-pdf/fpdf.
// Generates an A5 invoice with:
//   - Company header
//   - Invoice number, issue and due dates
//   - Client block (name, email, address)
//   - Amount-due line
//
// The output file is saved to storagePath/invoice_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"cargohub/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateInvoicePDF renders the PDF for a provisioned invoice.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GenerateInvoicePDF(bill *model.Billing, client *model.Client, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("invoice_%s.pdf", bill.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "CargoHub", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Transport Invoice", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(4)

	// ── Invoice info ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Invoice %s", bill.ID), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4.5, "Issued: "+bill.IssuedAt.Format("2006-01-02"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4.5, "Due:    "+bill.DueAt.Format("2006-01-02"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Client block ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 4.5, "Billed to", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4.5, client.Name, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4.5, client.Email, "", 1, "L", false, 0, "")
	if client.Address != nil && *client.Address != "" {
		pdf.CellFormat(contentW, 4.5, *client.Address, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// ── Amount ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW*0.6, 6, fmt.Sprintf("Transport services (request %s)", bill.RequestID), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW*0.4, 6, "$"+bill.Amount.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW*0.6, 7, "TOTAL DUE", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 7, "$"+bill.Amount.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 4, "Thank you for shipping with CargoHub.", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
