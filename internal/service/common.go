package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/apperror"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	dateLayout    = "2006-01-02"
	moneyPlaces   = 2
	percentPlaces = 2
	defaultLimit  = 20
)

var hundred = decimal.NewFromInt(100)

// Notifier delivers best-effort events to connected back-office clients.
type Notifier interface {
	Notify(event string, data map[string]interface{}) error
}

type noopNotifier struct{}

func (noopNotifier) Notify(string, map[string]interface{}) error { return nil }

// --- Parsing helpers ---

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid %s: %q", field, raw)
	}
	return id, nil
}

func parseOptionalID(field, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := parseID(field, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseDecimal(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperror.Validation("invalid %s: %q", field, raw)
	}
	return d, nil
}

// parseMoney parses an amount that must be exact in cents. Trailing zeros
// beyond the second place are accepted ("100.000").
func parseMoney(field, raw string) (decimal.Decimal, error) {
	d, err := parseDecimal(field, raw)
	if err != nil {
		return decimal.Zero, err
	}
	if !fitsScale(d, moneyPlaces) {
		return decimal.Zero, apperror.Validation("%s must have at most %d decimal places", field, moneyPlaces)
	}
	return d.Round(moneyPlaces), nil
}

func parsePercent(field, raw string) (decimal.Decimal, error) {
	p, err := parseDecimal(field, raw)
	if err != nil {
		return decimal.Zero, err
	}
	if p.IsNegative() || p.GreaterThan(hundred) {
		return decimal.Zero, apperror.Validation("%s must be between 0 and 100", field)
	}
	if !fitsScale(p, percentPlaces) {
		return decimal.Zero, apperror.Validation("%s must have at most %d decimal places", field, percentPlaces)
	}
	return p.Round(percentPlaces), nil
}

// fitsScale reports whether d is stored without loss in a column with the
// given number of decimal places.
func fitsScale(d decimal.Decimal, places int32) bool {
	return d.Round(places).Equal(d)
}

func parseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, apperror.Validation("invalid %s: expected YYYY-MM-DD", field)
	}
	return t, nil
}

// actorUUID returns nil for storefront or system callers without a user id.
func actorUUID(actorID string) *uuid.UUID {
	if parsed, err := uuid.Parse(actorID); err == nil {
		return &parsed
	}
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	return page, limit
}

// notFound converts repository.ErrNotFound into a classified error and
// passes anything else through with context.
func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.Wrap(apperror.KindNotFound, err, fmt.Sprintf(format, args...))
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func writeAudit(ctx context.Context, repo repository.AuditRepository, actorID, action, entityID, entityName string, details interface{}) error {
	payload, _ := json.Marshal(details)
	entry := &model.AuditLog{
		UserID:     actorUUID(actorID),
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}
	if err := repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(moneyPlaces)
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func optionalID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
