package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/apperror"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// --- DTOs ---

type RecordPaymentRequest struct {
	CustomerInvoiceID string `json:"customer_invoice_id"`
	VendorBillID      string `json:"vendor_bill_id"`
	Amount            string `json:"amount" binding:"required"`
	Method            string `json:"method" binding:"required,oneof=CASH BANK_TRANSFER CARD CHEQUE ONLINE"`
	Direction         string `json:"direction" binding:"omitempty,oneof=INBOUND OUTBOUND"`     // Optional: derived from the document
	PartnerType       string `json:"partner_type" binding:"omitempty,oneof=CUSTOMER VENDOR"`   // Optional: derived from the document
	PaymentDate       string `json:"payment_date"`                                             // Optional: YYYY-MM-DD, defaults to today
	Note              string `json:"note"`
}

type PaymentResponse struct {
	ID                string  `json:"id"`
	Amount            string  `json:"amount"`
	Method            string  `json:"method"`
	Direction         string  `json:"direction"`
	PartnerType       string  `json:"partner_type"`
	PaymentDate       string  `json:"payment_date"`
	CustomerInvoiceID *string `json:"customer_invoice_id"`
	VendorBillID      *string `json:"vendor_bill_id"`
	Note              string  `json:"note"`
	CreatedAt         string  `json:"created_at"`
}

// PaymentResult carries the created payment and the document state after
// reconciliation.
type PaymentResult struct {
	Payment PaymentResponse `json:"payment"`
	Invoice InvoiceResponse `json:"invoice"`
}

// --- Interface ---

type PaymentService interface {
	RecordPayment(ctx context.Context, actorID string, req RecordPaymentRequest) (PaymentResult, error)
	DeletePayment(ctx context.Context, actorID, id string) (InvoiceResponse, error)
	ListPayments(ctx context.Context, invoiceID string) ([]PaymentResponse, error)
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	invoiceRepo repository.InvoiceRepository
	orderRepo   repository.OrderRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	logger      *zap.Logger
	now         func() time.Time
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	invoiceRepo repository.InvoiceRepository,
	orderRepo repository.OrderRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	logger *zap.Logger,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		orderRepo:   orderRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		logger:      logger,
		now:         time.Now,
	}
}

// --- Implementation ---

// RecordPayment registers money against one invoice or bill. The amount is
// checked against the amount due derived from the stored payments while the
// document row is locked.
func (s *paymentService) RecordPayment(ctx context.Context, actorID string, req RecordPaymentRequest) (PaymentResult, error) {
	if (req.CustomerInvoiceID == "") == (req.VendorBillID == "") {
		return PaymentResult{}, apperror.Validation("exactly one of customer_invoice_id and vendor_bill_id must be set")
	}

	docField, rawDocID, wantType := "customer_invoice_id", req.CustomerInvoiceID, model.DocTypeCustomerInvoice
	if req.VendorBillID != "" {
		docField, rawDocID, wantType = "vendor_bill_id", req.VendorBillID, model.DocTypeVendorBill
	}
	docID, err := parseID(docField, rawDocID)
	if err != nil {
		return PaymentResult{}, err
	}

	amount, err := parseMoney("amount", req.Amount)
	if err != nil {
		return PaymentResult{}, err
	}
	if !amount.IsPositive() {
		return PaymentResult{}, apperror.Validation("amount must be greater than 0")
	}
	if !model.IsValidPaymentMethod(req.Method) {
		return PaymentResult{}, apperror.Validation("invalid payment method: %q", req.Method)
	}

	paymentDate := model.DateOf(s.now())
	if req.PaymentDate != "" {
		if paymentDate, err = parseDate("payment_date", req.PaymentDate); err != nil {
			return PaymentResult{}, err
		}
	}

	var (
		payment model.Payment
		invoice *model.Invoice
	)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, err = s.invoiceRepo.FindByIDForUpdate(txCtx, docID)
		if err != nil {
			return notFound(err, "document %s not found", docID)
		}
		if invoice.DocumentType != wantType {
			return apperror.Validation("%s refers to a %s", docField, invoice.DocumentType)
		}
		if req.Direction != "" && req.Direction != invoice.PaymentDirection() {
			return apperror.Validation("direction must be %s for a %s", invoice.PaymentDirection(), invoice.DocumentType)
		}
		if req.PartnerType != "" && req.PartnerType != invoice.PartnerType() {
			return apperror.Validation("partner_type must be %s for a %s", invoice.PartnerType(), invoice.DocumentType)
		}

		paid, err := s.paymentRepo.SumByDocument(txCtx, invoice.ID)
		if err != nil {
			return fmt.Errorf("failed to sum payments: %w", err)
		}
		due := invoice.TotalAmount.Sub(paid)
		if !due.IsPositive() {
			return apperror.Validation("document %s is already fully paid", invoice.DocumentNumber)
		}
		if amount.GreaterThan(due) {
			return apperror.Validation("amount %s exceeds amount due %s", money(amount), money(due))
		}

		payment = model.Payment{
			Amount:      amount,
			Method:      req.Method,
			Direction:   invoice.PaymentDirection(),
			PartnerType: invoice.PartnerType(),
			PaymentDate: paymentDate,
			Note:        req.Note,
			CreatedBy:   actorUUID(actorID),
		}
		ref := invoice.ID
		if invoice.DocumentType == model.DocTypeVendorBill {
			payment.VendorBillID = &ref
		} else {
			payment.CustomerInvoiceID = &ref
		}
		if err := s.paymentRepo.Create(txCtx, &payment); err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		if err := s.reconcile(txCtx, invoice); err != nil {
			return err
		}

		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionRecordPayment, payment.ID.String(), invoice.DocumentNumber, map[string]interface{}{
			"amount":      money(payment.Amount),
			"method":      payment.Method,
			"amount_paid": money(invoice.AmountPaid),
			"status":      invoice.Status,
		})
	})
	if err != nil {
		return PaymentResult{}, err
	}

	s.logger.Info("payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("document", invoice.DocumentNumber),
		zap.String("status", invoice.Status),
	)

	return PaymentResult{
		Payment: toPaymentResponse(payment),
		Invoice: toInvoiceResponse(*invoice),
	}, nil
}

// DeletePayment removes a payment and re-derives the document state from the
// payments that remain.
func (s *paymentService) DeletePayment(ctx context.Context, actorID, id string) (InvoiceResponse, error) {
	paymentID, err := parseID("payment id", id)
	if err != nil {
		return InvoiceResponse{}, err
	}

	var invoice *model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		payment, err := s.paymentRepo.FindByID(txCtx, paymentID)
		if err != nil {
			return notFound(err, "payment %s not found", paymentID)
		}

		invoice, err = s.invoiceRepo.FindByIDForUpdate(txCtx, payment.DocumentID())
		if err != nil {
			return notFound(err, "document of payment %s not found", paymentID)
		}

		if err := s.paymentRepo.Delete(txCtx, payment.ID); err != nil {
			return notFound(err, "payment %s not found", paymentID)
		}

		if err := s.reconcile(txCtx, invoice); err != nil {
			return err
		}

		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionDeletePayment, payment.ID.String(), invoice.DocumentNumber, map[string]interface{}{
			"amount":      money(payment.Amount),
			"amount_paid": money(invoice.AmountPaid),
			"status":      invoice.Status,
		})
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	return toInvoiceResponse(*invoice), nil
}

func (s *paymentService) ListPayments(ctx context.Context, invoiceID string) ([]PaymentResponse, error) {
	docID, err := parseID("invoice id", invoiceID)
	if err != nil {
		return nil, err
	}
	if _, err := s.invoiceRepo.FindByID(ctx, docID); err != nil {
		return nil, notFound(err, "invoice %s not found", docID)
	}

	payments, err := s.paymentRepo.ListByDocument(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}

	result := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		result = append(result, toPaymentResponse(p))
	}
	return result, nil
}

// --- Helpers ---

// reconcile recomputes amount paid from the stored payments, persists the
// derived status and keeps the linked order's PAID state in step.
func (s *paymentService) reconcile(ctx context.Context, invoice *model.Invoice) error {
	paid, err := s.paymentRepo.SumByDocument(ctx, invoice.ID)
	if err != nil {
		return fmt.Errorf("failed to sum payments: %w", err)
	}
	invoice.ApplyPaidAmount(paid)
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	return s.syncOrderStatus(ctx, invoice.OrderID, invoice.Status == model.InvoiceStatusPaid)
}

func (s *paymentService) syncOrderStatus(ctx context.Context, orderID uuid.UUID, settled bool) error {
	order, err := s.orderRepo.FindByIDForUpdate(ctx, orderID)
	if err != nil {
		return notFound(err, "order %s not found", orderID)
	}

	switch {
	case settled && order.Status == model.OrderStatusConfirmed:
		order.Status = model.OrderStatusPaid
	case !settled && order.Status == model.OrderStatusPaid:
		order.Status = model.OrderStatusConfirmed
	default:
		return nil
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

// --- Mapping ---

func toPaymentResponse(p model.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                p.ID.String(),
		Amount:            money(p.Amount),
		Method:            p.Method,
		Direction:         p.Direction,
		PartnerType:       p.PartnerType,
		PaymentDate:       p.PaymentDate.Format(dateLayout),
		CustomerInvoiceID: optionalID(p.CustomerInvoiceID),
		VendorBillID:      optionalID(p.VendorBillID),
		Note:              p.Note,
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
	}
}
