package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/apperror"
	"storefront/internal/model"
	"storefront/internal/repository"
)

type CreatePaymentTermRequest struct {
	Name string `json:"name" binding:"required"`
	Days *int   `json:"days"` // Optional: parsed from the name when omitted
}

type PaymentTermResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Days *int   `json:"days"`
	// EffectiveDays is what invoicing will use.
	EffectiveDays int `json:"effective_days"`
}

type PaymentTermService interface {
	CreatePaymentTerm(ctx context.Context, actorID string, req CreatePaymentTermRequest) (PaymentTermResponse, error)
	ListPaymentTerms(ctx context.Context) ([]PaymentTermResponse, error)
}

type paymentTermService struct {
	paymentTermRepo repository.PaymentTermRepository
	auditRepo       repository.AuditRepository
	txManager       repository.TransactionManager
}

func NewPaymentTermService(
	paymentTermRepo repository.PaymentTermRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) PaymentTermService {
	return &paymentTermService{
		paymentTermRepo: paymentTermRepo,
		auditRepo:       auditRepo,
		txManager:       txManager,
	}
}

func (s *paymentTermService) CreatePaymentTerm(ctx context.Context, actorID string, req CreatePaymentTermRequest) (PaymentTermResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return PaymentTermResponse{}, apperror.Validation("name is required")
	}
	if req.Days != nil && *req.Days < 0 {
		return PaymentTermResponse{}, apperror.Validation("days must not be negative")
	}

	term := model.PaymentTerm{Name: name, Days: req.Days}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.paymentTermRepo.Create(txCtx, &term); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.Wrap(apperror.KindConflict, err, fmt.Sprintf("payment term %q already exists", name))
			}
			return fmt.Errorf("failed to create payment term: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionCreateTerm, term.ID.String(), term.Name, map[string]interface{}{
			"days": term.TermDays(),
		})
	})
	if err != nil {
		return PaymentTermResponse{}, err
	}
	return toPaymentTermResponse(term), nil
}

func (s *paymentTermService) ListPaymentTerms(ctx context.Context) ([]PaymentTermResponse, error) {
	terms, err := s.paymentTermRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment terms: %w", err)
	}
	res := make([]PaymentTermResponse, 0, len(terms))
	for _, t := range terms {
		res = append(res, toPaymentTermResponse(t))
	}
	return res, nil
}

func toPaymentTermResponse(t model.PaymentTerm) PaymentTermResponse {
	return PaymentTermResponse{
		ID:            t.ID.String(),
		Name:          t.Name,
		Days:          t.Days,
		EffectiveDays: t.TermDays(),
	}
}
