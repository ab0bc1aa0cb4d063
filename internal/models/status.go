package models

// Status is shared by transactions and payments.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusRefunded   Status = "refunded"
	StatusCancelled  Status = "cancelled"
)

var validStatuses = map[Status]bool{
	StatusPending:    true,
	StatusProcessing: true,
	StatusCompleted:  true,
	StatusFailed:     true,
	StatusRefunded:   true,
	StatusCancelled:  true,
}

func (s Status) Valid() bool {
	return validStatuses[s]
}

// TransactionType classifies a money movement. Payments carry the same value
// under paymentType.
type TransactionType string

const (
	TypeJobPostingFee      TransactionType = "job_posting_fee"
	TypeShiftPayment       TransactionType = "shift_payment"
	TypeEarningsWithdrawal TransactionType = "earnings_withdrawal"
	TypeRefund             TransactionType = "refund"
	TypePlatformFee        TransactionType = "platform_fee"
)

var validTypes = map[TransactionType]bool{
	TypeJobPostingFee:      true,
	TypeShiftPayment:       true,
	TypeEarningsWithdrawal: true,
	TypeRefund:             true,
	TypePlatformFee:        true,
}

func (t TransactionType) Valid() bool {
	return validTypes[t]
}

// UserRole is the marketplace role of the acting party.
type UserRole string

const (
	RoleEmployer UserRole = "employer"
	RoleWorker   UserRole = "worker"
	RoleAdmin    UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == RoleEmployer || r == RoleWorker || r == RoleAdmin
}

const DefaultCurrency = "USD"
