package handlers

import (
	"fmt"
	"net/mail"
	"regexp"
	"sort"
	"strings"

	"github.com/markjakearzadon/shiftpay-gobackend/internal/models"
)

// ValidationErrors maps a request field to what is wrong with it. An empty
// map means the request is valid.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return strings.Join(parts, "; ")
}

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

type RegisterRequest struct {
	FullName string          `json:"fullname"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
}

func (r RegisterRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if strings.TrimSpace(r.FullName) == "" {
		errs["fullname"] = "is required"
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		errs["email"] = "must be a valid email address"
	}
	if len(r.Password) < 8 {
		errs["password"] = "must be at least 8 characters"
	}
	if !r.Role.Valid() || r.Role == models.RoleAdmin {
		errs["role"] = "must be employer or worker"
	}
	return errs
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if r.Email == "" {
		errs["email"] = "is required"
	}
	if r.Password == "" {
		errs["password"] = "is required"
	}
	return errs
}

type PaymentRequest struct {
	PaymentType models.TransactionType `json:"paymentType"`
	Amount      models.Amount          `json:"amount"`
	Currency    string                 `json:"currency"`
	ToUserID    string                 `json:"toUserId"`
	JobID       string                 `json:"jobId"`
	ShiftID     string                 `json:"shiftId"`
	Description string                 `json:"description"`
}

func (r PaymentRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if !r.PaymentType.Valid() {
		errs["paymentType"] = "is not a known payment type"
	}
	currency := r.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}
	places := models.CurrencyExponent(currency)
	if !r.Amount.IsPositive() {
		errs["amount"] = "must be greater than zero"
	} else if !r.Amount.Equal(r.Amount.Round(places)) {
		errs["amount"] = fmt.Sprintf("must have at most %d decimal places for %s", places, currency)
	}
	if r.Currency != "" && !currencyPattern.MatchString(r.Currency) {
		errs["currency"] = "must be a three-letter uppercase ISO code"
	}
	if r.PaymentType == models.TypeShiftPayment {
		if r.ToUserID == "" {
			errs["toUserId"] = "is required for shift payments"
		}
		if r.ShiftID == "" {
			errs["shiftId"] = "is required for shift payments"
		}
	}
	if r.PaymentType == models.TypeJobPostingFee && r.JobID == "" {
		errs["jobId"] = "is required for job posting fees"
	}
	if len(r.Description) > 500 {
		errs["description"] = "must be at most 500 characters"
	}
	return errs
}
