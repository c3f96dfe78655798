package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/apperror"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EventInvoiceCreated is broadcast after an invoice or bill is committed.
const EventInvoiceCreated = "invoice_created"

// --- DTOs ---

type CreateInvoiceRequest struct {
	OrderID       string `json:"order_id" binding:"required"`
	PaymentTermID string `json:"payment_term_id"` // Optional: defaults to the party's payment term
}

type InvoiceFilter struct {
	DocumentType   string // CUSTOMER_INVOICE, VENDOR_BILL or empty for all
	Status         string // UNPAID, PARTIAL, PAID or empty for all
	DocumentNumber string // partial match on document_number
	PartyID        string
	Page           int
	Limit          int
}

type InvoiceResponse struct {
	ID             string            `json:"id"`
	DocumentNumber string            `json:"document_number"`
	DocumentType   string            `json:"document_type"`
	OrderID        string            `json:"order_id"`
	PartyID        string            `json:"party_id"`
	PaymentTermID  *string           `json:"payment_term_id"`
	InvoiceDate    string            `json:"invoice_date"`
	DueDate        string            `json:"due_date"`
	Subtotal       string            `json:"subtotal"`
	TaxAmount      string            `json:"tax_amount"`
	DiscountAmount string            `json:"discount_amount"`
	TotalAmount    string            `json:"total_amount"`
	AmountPaid     string            `json:"amount_paid"`
	AmountDue      string            `json:"amount_due"`
	Status         string            `json:"status"`
	Payments       []PaymentResponse `json:"payments,omitempty"`
	CreatedAt      string            `json:"created_at"`
}

// --- Interface ---

type InvoiceService interface {
	CreateFromOrder(ctx context.Context, actorID string, req CreateInvoiceRequest) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error)
}

type invoiceService struct {
	invoiceRepo     repository.InvoiceRepository
	orderRepo       repository.OrderRepository
	contactRepo     repository.ContactRepository
	paymentTermRepo repository.PaymentTermRepository
	paymentRepo     repository.PaymentRepository
	auditRepo       repository.AuditRepository
	numbers         NumberGenerator
	txManager       repository.TransactionManager
	notifier        Notifier
	logger          *zap.Logger
	now             func() time.Time
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	orderRepo repository.OrderRepository,
	contactRepo repository.ContactRepository,
	paymentTermRepo repository.PaymentTermRepository,
	paymentRepo repository.PaymentRepository,
	auditRepo repository.AuditRepository,
	numbers NumberGenerator,
	txManager repository.TransactionManager,
	notifier Notifier,
	logger *zap.Logger,
) InvoiceService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &invoiceService{
		invoiceRepo:     invoiceRepo,
		orderRepo:       orderRepo,
		contactRepo:     contactRepo,
		paymentTermRepo: paymentTermRepo,
		paymentRepo:     paymentRepo,
		auditRepo:       auditRepo,
		numbers:         numbers,
		txManager:       txManager,
		notifier:        notifier,
		logger:          logger,
		now:             time.Now,
	}
}

// --- Implementation ---

// CreateFromOrder issues the single invoice (SALE) or bill (PURCHASE) of a
// confirmed order. Amounts are copied from the order and never re-read.
func (s *invoiceService) CreateFromOrder(ctx context.Context, actorID string, req CreateInvoiceRequest) (InvoiceResponse, error) {
	orderID, err := parseID("order_id", req.OrderID)
	if err != nil {
		return InvoiceResponse{}, err
	}
	termID, err := parseOptionalID("payment_term_id", req.PaymentTermID)
	if err != nil {
		return InvoiceResponse{}, err
	}

	var invoice model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindByIDForUpdate(txCtx, orderID)
		if err != nil {
			return notFound(err, "order %s not found", orderID)
		}
		switch order.Status {
		case model.OrderStatusDraft:
			return apperror.InvalidState("order %s must be confirmed first", order.OrderNumber)
		case model.OrderStatusCancelled:
			return apperror.InvalidState("order %s is cancelled", order.OrderNumber)
		}

		existing, err := s.invoiceRepo.FindByOrderID(txCtx, order.ID)
		if err == nil {
			return apperror.Conflict("order %s already has document %s", order.OrderNumber, existing.DocumentNumber)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("failed to check existing invoice: %w", err)
		}

		term, err := s.resolveTerm(txCtx, termID, order.PartyID)
		if err != nil {
			return err
		}

		docType := order.InvoiceDocumentType()
		prefix := PrefixCustomerInvoice
		if docType == model.DocTypeVendorBill {
			prefix = PrefixVendorBill
		}
		number, err := s.numbers.Next(txCtx, prefix)
		if err != nil {
			return err
		}

		today := model.DateOf(s.now())
		days := 0
		if term != nil {
			days = term.TermDays()
		}

		invoice = model.Invoice{
			DocumentNumber: number,
			DocumentType:   docType,
			OrderID:        order.ID,
			PartyID:        order.PartyID,
			InvoiceDate:    today,
			DueDate:        today.AddDate(0, 0, days),
			Subtotal:       order.Subtotal,
			TaxAmount:      order.TaxAmount,
			DiscountAmount: order.DiscountAmount,
			TotalAmount:    order.TotalAmount,
			CreatedBy:      actorUUID(actorID),
		}
		if term != nil {
			invoice.PaymentTermID = &term.ID
		}
		invoice.ApplyPaidAmount(decimal.Zero)

		if err := s.invoiceRepo.Create(txCtx, &invoice); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.Wrap(apperror.KindConflict, err, "order already has an invoice")
			}
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		// A zero-total document is settled on issue.
		if invoice.Status == model.InvoiceStatusPaid && order.Status == model.OrderStatusConfirmed {
			order.Status = model.OrderStatusPaid
			if err := s.orderRepo.Update(txCtx, order); err != nil {
				return fmt.Errorf("failed to update order: %w", err)
			}
		}

		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionCreateInvoice, invoice.ID.String(), invoice.DocumentNumber, map[string]interface{}{
			"order_id": order.ID.String(),
			"type":     invoice.DocumentType,
			"total":    money(invoice.TotalAmount),
			"due_date": invoice.DueDate.Format(dateLayout),
		})
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	if err := s.notifier.Notify(EventInvoiceCreated, map[string]interface{}{
		"id":              invoice.ID.String(),
		"document_number": invoice.DocumentNumber,
		"document_type":   invoice.DocumentType,
		"total_amount":    money(invoice.TotalAmount),
	}); err != nil {
		s.logger.Warn("invoice notification failed",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err),
		)
	}

	return toInvoiceResponse(invoice), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	invoiceID, err := parseID("invoice id", id)
	if err != nil {
		return InvoiceResponse{}, err
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, notFound(err, "invoice %s not found", invoiceID)
	}
	payments, err := s.paymentRepo.ListByDocument(ctx, invoice.ID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to fetch payments: %w", err)
	}
	invoice.Payments = payments

	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	partyID, err := parseOptionalID("party_id", filter.PartyID)
	if err != nil {
		return nil, 0, err
	}

	invoices, total, err := s.invoiceRepo.List(ctx, repository.InvoiceListFilter{
		DocumentType:   filter.DocumentType,
		Status:         filter.Status,
		DocumentNumber: filter.DocumentNumber,
		PartyID:        partyID,
		Page:           filter.Page,
		Limit:          filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceResponse(inv))
	}
	return result, total, nil
}

// resolveTerm picks the requested payment term, falling back to the party's
// default. A nil term means the document is due on the invoice date.
func (s *invoiceService) resolveTerm(ctx context.Context, termID *uuid.UUID, partyID uuid.UUID) (*model.PaymentTerm, error) {
	if termID != nil {
		term, err := s.paymentTermRepo.FindByID(ctx, *termID)
		if err != nil {
			return nil, notFound(err, "payment term %s not found", *termID)
		}
		return term, nil
	}

	party, err := s.contactRepo.FindByID(ctx, partyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load contact: %w", err)
	}
	return party.PaymentTerm, nil
}

// --- Mapping ---

func toInvoiceResponse(inv model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:             inv.ID.String(),
		DocumentNumber: inv.DocumentNumber,
		DocumentType:   inv.DocumentType,
		OrderID:        inv.OrderID.String(),
		PartyID:        inv.PartyID.String(),
		PaymentTermID:  optionalID(inv.PaymentTermID),
		InvoiceDate:    inv.InvoiceDate.Format(dateLayout),
		DueDate:        inv.DueDate.Format(dateLayout),
		Subtotal:       money(inv.Subtotal),
		TaxAmount:      money(inv.TaxAmount),
		DiscountAmount: money(inv.DiscountAmount),
		TotalAmount:    money(inv.TotalAmount),
		AmountPaid:     money(inv.AmountPaid),
		AmountDue:      money(inv.AmountDue),
		Status:         inv.Status,
		CreatedAt:      inv.CreatedAt.Format(time.RFC3339),
	}
	for _, p := range inv.Payments {
		resp.Payments = append(resp.Payments, toPaymentResponse(p))
	}
	return resp
}
