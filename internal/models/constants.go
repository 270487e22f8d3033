package models

// Роли пользователей
const (
	RoleParent     = "parent"
	RoleCaregiver  = "caregiver"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// Статусы аккаунта
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
	UserStatusBanned    = "banned"
	UserStatusInactive  = "inactive"
)

// Хранимые статусы вакансий
const (
	JobStatusActive    = "active"
	JobStatusFilled    = "filled"
	JobStatusCancelled = "cancelled"
	JobStatusCompleted = "completed"
)

// Переходные названия статусов вакансий, которые приводятся к хранимым перед записью.
const (
	JobStatusPending   = "pending"
	JobStatusOpen      = "open"
	JobStatusConfirmed = "confirmed"
	JobStatusInactive  = "inactive"
)

// Статусы бронирований
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Статусы оплаты
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusDisputed = "disputed"
	PaymentStatusRefunded = "refunded"
)

// Итог проверки подтверждений оплаты
const (
	ProofStatusOK          = "ok"
	ProofStatusNeedsReview = "needs_review"
)

// Статусы жалоб
const (
	ReportStatusPending     = "pending"
	ReportStatusUnderReview = "under_review"
	ReportStatusResolved    = "resolved"
	ReportStatusDismissed   = "dismissed"
)

// Серьёзность жалобы
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Типы жалоб
const (
	ReportTypeInappropriateBehavior = "inappropriate_behavior"
	ReportTypeSafetyConcern         = "safety_concern"
	ReportTypeFraud                 = "fraud"
	ReportTypeHarassment            = "harassment"
	ReportTypeNoShow                = "no_show"
	ReportTypePaymentIssue          = "payment_issue"
	ReportTypeOther                 = "other"
)

// Действия журнала аудита
const (
	AuditUpdateUserStatus     = "UPDATE_USER_STATUS"
	AuditDeleteUser           = "DELETE_USER"
	AuditChangeUserRole       = "CHANGE_USER_ROLE"
	AuditCreateUser           = "CREATE_USER"
	AuditUpdateJob            = "UPDATE_JOB"
	AuditUpdateBooking        = "UPDATE_BOOKING"
	AuditStartBooking         = "START_BOOKING"
	AuditUpdatePaymentStatus  = "UPDATE_PAYMENT_STATUS"
	AuditRefundPayment        = "REFUND_PAYMENT"
	AuditDeletePaymentProof   = "DELETE_PAYMENT_PROOF"
	AuditUpdateReportStatus   = "UPDATE_REPORT_STATUS"
	AuditUpdateSystemSettings = "UPDATE_SYSTEM_SETTINGS"
)

// ValidRoles список допустимых ролей
var ValidRoles = map[string]struct{}{
	RoleParent:     {},
	RoleCaregiver:  {},
	RoleAdmin:      {},
	RoleSuperadmin: {},
}

// ValidUserStatuses список допустимых статусов аккаунта
var ValidUserStatuses = map[string]struct{}{
	UserStatusActive:    {},
	UserStatusSuspended: {},
	UserStatusBanned:    {},
	UserStatusInactive:  {},
}

// ValidPaymentStatuses список допустимых статусов оплаты
var ValidPaymentStatuses = map[string]struct{}{
	PaymentStatusPending:  {},
	PaymentStatusPaid:     {},
	PaymentStatusDisputed: {},
	PaymentStatusRefunded: {},
}

// ValidReportStatuses список допустимых статусов жалоб
var ValidReportStatuses = map[string]struct{}{
	ReportStatusPending:     {},
	ReportStatusUnderReview: {},
	ReportStatusResolved:    {},
	ReportStatusDismissed:   {},
}

// ValidSeverities список допустимых уровней серьёзности
var ValidSeverities = map[string]struct{}{
	SeverityLow:      {},
	SeverityMedium:   {},
	SeverityHigh:     {},
	SeverityCritical: {},
}

// ValidReportTypes список допустимых типов жалоб
var ValidReportTypes = map[string]struct{}{
	ReportTypeInappropriateBehavior: {},
	ReportTypeSafetyConcern:         {},
	ReportTypeFraud:                 {},
	ReportTypeHarassment:            {},
	ReportTypeNoShow:                {},
	ReportTypePaymentIssue:          {},
	ReportTypeOther:                 {},
}

// IsAdminRole сообщает, относится ли роль к администраторам.
func IsAdminRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperadmin
}
