package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/apperror"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// --- Contact DTOs ---

type CreateContactRequest struct {
	Name          string `json:"name" binding:"required"`
	Type          string `json:"type" binding:"required"`
	CompanyName   string `json:"company_name"`
	TaxCode       string `json:"tax_code"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	PaymentTermID string `json:"payment_term_id"`
}

type UpdateContactRequest struct {
	Name          *string `json:"name"`
	Type          *string `json:"type"`
	CompanyName   *string `json:"company_name"`
	TaxCode       *string `json:"tax_code"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	PaymentTermID *string `json:"payment_term_id"` // "" clears the default term
	IsActive      *bool   `json:"is_active"`
}

type ContactResponse struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	CompanyName     string     `json:"company_name"`
	TaxCode         string     `json:"tax_code"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	Address         string     `json:"address"`
	PaymentTermID   *uuid.UUID `json:"payment_term_id"`
	PaymentTermName string     `json:"payment_term_name,omitempty"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// --- Interface ---

type ContactService interface {
	CreateContact(ctx context.Context, actorID string, req CreateContactRequest) (ContactResponse, error)
	UpdateContact(ctx context.Context, actorID, id string, req UpdateContactRequest) (ContactResponse, error)
	DeleteContact(ctx context.Context, actorID, id string) error
	GetContact(ctx context.Context, id string) (ContactResponse, error)
	GetContacts(ctx context.Context, contactType, search string, page, limit int) ([]ContactResponse, int64, error)
}

// --- Implementation ---

type contactService struct {
	contactRepo     repository.ContactRepository
	paymentTermRepo repository.PaymentTermRepository
	auditRepo       repository.AuditRepository
	txManager       repository.TransactionManager
}

func NewContactService(
	contactRepo repository.ContactRepository,
	paymentTermRepo repository.PaymentTermRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) ContactService {
	return &contactService{
		contactRepo:     contactRepo,
		paymentTermRepo: paymentTermRepo,
		auditRepo:       auditRepo,
		txManager:       txManager,
	}
}

// --- Validation helpers ---

var validContactTypes = map[string]bool{
	model.ContactTypeCustomer: true,
	model.ContactTypeVendor:   true,
	model.ContactTypeBoth:     true,
}

// validate applies the same rules gin uses for `binding` tags.
var validate = validator.New()

func validateEmail(email string) error {
	if email == "" {
		return nil
	}
	if err := validate.Var(email, "email"); err != nil {
		return apperror.Validation("invalid email format")
	}
	return nil
}

func (s *contactService) checkTerm(ctx context.Context, raw string) (*uuid.UUID, error) {
	termID, err := parseOptionalID("payment_term_id", raw)
	if err != nil || termID == nil {
		return nil, err
	}
	if _, err := s.paymentTermRepo.FindByID(ctx, *termID); err != nil {
		return nil, notFound(err, "payment term %s not found", *termID)
	}
	return termID, nil
}

// --- CRUD ---

func (s *contactService) CreateContact(ctx context.Context, actorID string, req CreateContactRequest) (ContactResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return ContactResponse{}, apperror.Validation("name is required")
	}
	if !validContactTypes[req.Type] {
		return ContactResponse{}, apperror.Validation("type must be one of: CUSTOMER, VENDOR, BOTH")
	}
	if err := validateEmail(req.Email); err != nil {
		return ContactResponse{}, err
	}

	contact := &model.Contact{
		Name:        name,
		Type:        req.Type,
		CompanyName: req.CompanyName,
		TaxCode:     req.TaxCode,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		IsActive:    true,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		termID, err := s.checkTerm(txCtx, req.PaymentTermID)
		if err != nil {
			return err
		}
		contact.PaymentTermID = termID

		if err := s.contactRepo.Create(txCtx, contact); err != nil {
			return fmt.Errorf("failed to create contact: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionCreateContact, contact.ID.String(), contact.Name, map[string]interface{}{
			"type": contact.Type,
		})
	})
	if err != nil {
		return ContactResponse{}, err
	}

	return s.GetContact(ctx, contact.ID.String())
}

func (s *contactService) UpdateContact(ctx context.Context, actorID, id string, req UpdateContactRequest) (ContactResponse, error) {
	contactID, err := parseID("contact id", id)
	if err != nil {
		return ContactResponse{}, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		contact, err := s.contactRepo.FindByID(txCtx, contactID)
		if err != nil {
			return notFound(err, "contact %s not found", contactID)
		}

		// Apply field updates
		if req.Name != nil {
			if strings.TrimSpace(*req.Name) == "" {
				return apperror.Validation("name cannot be empty")
			}
			contact.Name = strings.TrimSpace(*req.Name)
		}
		if req.Type != nil {
			if !validContactTypes[*req.Type] {
				return apperror.Validation("type must be one of: CUSTOMER, VENDOR, BOTH")
			}
			contact.Type = *req.Type
		}
		if req.Email != nil {
			if err := validateEmail(*req.Email); err != nil {
				return err
			}
			contact.Email = *req.Email
		}
		if req.CompanyName != nil {
			contact.CompanyName = *req.CompanyName
		}
		if req.TaxCode != nil {
			contact.TaxCode = *req.TaxCode
		}
		if req.Phone != nil {
			contact.Phone = *req.Phone
		}
		if req.Address != nil {
			contact.Address = *req.Address
		}
		if req.IsActive != nil {
			contact.IsActive = *req.IsActive
		}
		if req.PaymentTermID != nil {
			termID, err := s.checkTerm(txCtx, *req.PaymentTermID)
			if err != nil {
				return err
			}
			contact.PaymentTermID = termID
			contact.PaymentTerm = nil
		}

		if err := s.contactRepo.Update(txCtx, contact); err != nil {
			return fmt.Errorf("failed to update contact: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionUpdateContact, contact.ID.String(), contact.Name, req)
	})
	if err != nil {
		return ContactResponse{}, err
	}

	return s.GetContact(ctx, contactID.String())
}

func (s *contactService) DeleteContact(ctx context.Context, actorID, id string) error {
	contactID, err := parseID("contact id", id)
	if err != nil {
		return err
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		contact, err := s.contactRepo.FindByID(txCtx, contactID)
		if err != nil {
			return notFound(err, "contact %s not found", contactID)
		}
		if err := s.contactRepo.Delete(txCtx, contactID); err != nil {
			return notFound(err, "contact %s not found", contactID)
		}
		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionDeleteContact, contact.ID.String(), contact.Name, map[string]interface{}{"deleted": true})
	})
}

func (s *contactService) GetContact(ctx context.Context, id string) (ContactResponse, error) {
	contactID, err := parseID("contact id", id)
	if err != nil {
		return ContactResponse{}, err
	}
	contact, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		return ContactResponse{}, notFound(err, "contact %s not found", contactID)
	}
	return toContactResponse(*contact), nil
}

func (s *contactService) GetContacts(ctx context.Context, contactType, search string, page, limit int) ([]ContactResponse, int64, error) {
	if contactType != "" && !validContactTypes[contactType] {
		return nil, 0, apperror.Validation("type must be one of: CUSTOMER, VENDOR, BOTH")
	}
	page, limit = normalizePage(page, limit)

	contacts, total, err := s.contactRepo.List(ctx, contactType, search, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	res := make([]ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		res = append(res, toContactResponse(c))
	}
	return res, total, nil
}

// --- Response mappers ---

func toContactResponse(c model.Contact) ContactResponse {
	resp := ContactResponse{
		ID:            c.ID,
		Name:          c.Name,
		Type:          c.Type,
		CompanyName:   c.CompanyName,
		TaxCode:       c.TaxCode,
		Email:         c.Email,
		Phone:         c.Phone,
		Address:       c.Address,
		PaymentTermID: c.PaymentTermID,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.PaymentTerm != nil {
		resp.PaymentTermName = c.PaymentTerm.Name
	}
	return resp
}
