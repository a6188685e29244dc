// Package models holds the JSON shapes exchanged with the billing API.
package models

import "time"

// User is a registered person; Role gates which console screens they see.
type User struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FullName    string     `json:"fullName"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Address     string     `json:"address,omitempty"`
	DateOfBirth time.Time  `json:"dateOfBirth"`
	Role        Role       `json:"role"`
	Status      UserStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Account is a user's prepaid balance.
type Account struct {
	ID              uint       `json:"id"`
	UserID          uint       `json:"userId"`
	UserName        string     `json:"userName,omitempty"`
	Balance         float64    `json:"balance"`
	CreatedDate     time.Time  `json:"createdDate"`
	LastDepositDate *time.Time `json:"lastDepositDate,omitempty"`
	LastUsageDate   *time.Time `json:"lastUsageDate,omitempty"`
}

type AccountDetails struct {
	Account
	RecentTransactions []Transaction `json:"recentTransactions"`
}

// Transaction is an append-only ledger entry. Amount is negative for debits.
type Transaction struct {
	ID              uint            `json:"id"`
	AccountID       uint            `json:"accountId"`
	Amount          float64         `json:"amount"`
	Type            TransactionType `json:"type"`
	PaymentMethod   *PaymentMethod  `json:"paymentMethod,omitempty"`
	ReferenceNumber string          `json:"referenceNumber,omitempty"`
	Description     string          `json:"description,omitempty"`
	Timestamp       time.Time       `json:"timestamp"`
}

type Computer struct {
	ID                  uint           `json:"id"`
	Name                string         `json:"name"`
	IPAddress           string         `json:"ipAddress"`
	Location            string         `json:"location"`
	Specifications      string         `json:"specifications"`
	HourlyRate          float64        `json:"hourlyRate"`
	Status              ComputerStatus `json:"computerStatus"`
	LastMaintenanceDate *time.Time     `json:"lastMaintenanceDate,omitempty"`
	MaintenanceNotes    string         `json:"maintenanceNotes,omitempty"`
}

// Session is a billable period of computer usage, not a login session.
// Duration is formatted H:MM:SS.
type Session struct {
	ID           uint          `json:"id"`
	UserID       uint          `json:"userId"`
	UserName     string        `json:"userName"`
	ComputerID   uint          `json:"computerId"`
	ComputerName string        `json:"computerName"`
	StartTime    time.Time     `json:"startTime"`
	EndTime      *time.Time    `json:"endTime,omitempty"`
	Duration     string        `json:"duration"`
	TotalCost    float64       `json:"totalCost"`
	Status       SessionStatus `json:"status"`
	Notes        string        `json:"notes,omitempty"`
}

type ComputerStatusSummary struct {
	TotalComputers int `json:"totalComputers"`
	Available      int `json:"available"`
	InUse          int `json:"inUse"`
	Maintenance    int `json:"maintenance"`
	Broken         int `json:"broken"`
	ActiveSessions int `json:"activeSessions"`
}

type StatisticsSummary struct {
	TotalUsers     int     `json:"totalUsers"`
	ActiveUsers    int     `json:"activeUsers"`
	TotalComputers int     `json:"totalComputers"`
	ComputersInUse int     `json:"computersInUse"`
	TodayRevenue   float64 `json:"todayRevenue"`
	MonthRevenue   float64 `json:"monthRevenue"`
}

type AuthResponse struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FullName     string `json:"fullName,omitempty"`
	Role         Role   `json:"role"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username    string    `json:"username" binding:"required,min=3"`
	Email       string    `json:"email" binding:"required,email"`
	Password    string    `json:"password" binding:"required,min=6"`
	FullName    string    `json:"fullName" binding:"required"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Address     string    `json:"address,omitempty"`
	DateOfBirth time.Time `json:"dateOfBirth"`
}

// CreateUserRequest is the admin variant of registration that also picks a role.
type CreateUserRequest struct {
	RegisterRequest
	Role Role `json:"role"`
}

type UpdateUserRequest struct {
	Email       string    `json:"email" binding:"required,email"`
	FullName    string    `json:"fullName" binding:"required"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Address     string    `json:"address,omitempty"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	Role        *Role     `json:"role,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

type UserStatusUpdate struct {
	Status UserStatus `json:"status"`
}

type CreateComputerRequest struct {
	Name           string  `json:"name" binding:"required"`
	IPAddress      string  `json:"ipAddress"`
	Specifications string  `json:"specifications"`
	Location       string  `json:"location"`
	HourlyRate     float64 `json:"hourlyRate" binding:"gt=0"`
}

type UpdateComputerRequest = CreateComputerRequest

type ComputerStatusUpdate struct {
	ComputerID uint           `json:"computerId"`
	Status     ComputerStatus `json:"status"`
	Reason     string         `json:"reason,omitempty"`
}

type StartSessionRequest struct {
	UserID     uint `json:"userId" binding:"required"`
	ComputerID uint `json:"computerId" binding:"required"`
}

type EndSessionRequest struct {
	SessionID uint `json:"sessionId" binding:"required"`
}

type DepositRequest struct {
	AccountID       uint          `json:"accountId" binding:"required"`
	Amount          float64       `json:"amount" binding:"gt=0"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	ReferenceNumber string        `json:"referenceNumber,omitempty"`
}

type WithdrawRequest struct {
	AccountID uint    `json:"accountId" binding:"required"`
	Amount    float64 `json:"amount" binding:"gt=0"`
	Reason    string  `json:"reason,omitempty"`
}

// OnlineDepositRequest asks the backend for a payment-gateway checkout.
type OnlineDepositRequest struct {
	AccountID uint    `json:"accountId" binding:"required"`
	Amount    float64 `json:"amount" binding:"gt=0"`
}

type OnlineDepositResponse struct {
	OrderID     string `json:"orderId"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirectUrl"`
}
