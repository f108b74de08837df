package worker

// invoice_worker.go
// Processes invoice jobs from QueueInvoice: renders the PDF for a provisioned
// invoice and enqueues the email that delivers it to the client.

import (
	"context"
	"encoding/json"
	"fmt"

	"cargohub/internal/infra"
	"cargohub/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// InvoiceWorker renders invoice PDFs and hands delivery off to the email queue.
type InvoiceWorker struct {
	billingRepo    repository.BillingRepository
	clientRepo     repository.ClientRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewInvoiceWorker(
	billingRepo repository.BillingRepository,
	clientRepo repository.ClientRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
) *InvoiceWorker {
	return &InvoiceWorker{
		billingRepo:    billingRepo,
		clientRepo:     clientRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single invoice job:
//  1. Parse InvoiceJobPayload from the job envelope
//  2. Fetch the Billing record (with client)
//  3. Render the PDF and store its path on the record
//  4. Enqueue the delivery email
func (w *InvoiceWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload InvoiceJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("invoice_worker: invalid payload")
		return
	}
	billingID, err := uuid.Parse(payload.BillingID)
	if err != nil {
		log.Error().Str("billing_id", payload.BillingID).Msg("invoice_worker: invalid billing_id")
		return
	}

	bill, err := w.billingRepo.FindByID(ctx, billingID)
	if err != nil {
		log.Error().Err(err).Str("billing_id", payload.BillingID).Msg("invoice_worker: billing not found")
		return
	}
	client := bill.Client
	if client == nil {
		c, err := w.clientRepo.FindByID(ctx, bill.ClientID)
		if err != nil {
			log.Error().Err(err).Str("billing_id", payload.BillingID).Msg("invoice_worker: client not found")
			return
		}
		client = c
	}

	pdfPath, err := infra.GenerateInvoicePDF(bill, client, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("billing_id", payload.BillingID).Msg("invoice_worker: PDF generation failed")
		return
	}
	bill.PDFPath = &pdfPath
	if err := w.billingRepo.Update(ctx, bill); err != nil {
		log.Warn().Err(err).Str("billing_id", payload.BillingID).Msg("invoice_worker: failed to store PDF path")
	}
	log.Info().Str("pdf", pdfPath).Str("billing_id", payload.BillingID).Msg("invoice_worker: PDF generated")

	emailJob := EmailJobPayload{
		ToEmail: client.Email,
		Subject: fmt.Sprintf("CargoHub invoice %s", bill.ID),
		Body: fmt.Sprintf(
			"Please find your invoice attached.\nAmount due: %s\nDue date: %s",
			bill.Amount.StringFixed(2),
			bill.DueAt.Format("2006-01-02"),
		),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", client.Email).Msg("invoice_worker: failed to enqueue email")
	}
}
