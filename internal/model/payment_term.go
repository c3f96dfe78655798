package model

import (
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// PaymentTerm decides how many days after invoicing a document is due.
// Days takes precedence; otherwise the first number in Name is used ("Net 30").
type PaymentTerm struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Days      *int      `gorm:"type:int" json:"days"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var termDaysPattern = regexp.MustCompile(`\d+`)

// TermDays returns the number of days granted, or 0 (due immediately)
// when neither Days nor Name yields a non-negative number.
func (t PaymentTerm) TermDays() int {
	if t.Days != nil {
		if *t.Days < 0 {
			return 0
		}
		return *t.Days
	}
	match := termDaysPattern.FindString(t.Name)
	if match == "" {
		return 0
	}
	days, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return days
}
