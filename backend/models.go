package backend

import (
	"time"

	"gorm.io/gorm"

	"netcafe/models"
)

// User stores authentication and profile details
type User struct {
	gorm.Model
	Username    string `gorm:"uniqueIndex;not null"`
	Email       string `gorm:"uniqueIndex;not null"`
	Password    string `gorm:"not null"` // Hashed
	FullName    string
	PhoneNumber string
	Address     string
	DateOfBirth time.Time
	Role        models.Role
	Status      models.UserStatus
	Account     *Account
}

// Account is the prepaid balance, at most one per user
type Account struct {
	gorm.Model
	UserID          uint `gorm:"uniqueIndex;not null"`
	User            User
	Balance         float64
	LastDepositDate *time.Time
	LastUsageDate   *time.Time
	Transactions    []Transaction
}

// Transaction is a ledger line; Amount is negative for debits
type Transaction struct {
	gorm.Model
	AccountID       uint `gorm:"index;not null"`
	Amount          float64
	Type            models.TransactionType
	PaymentMethod   *models.PaymentMethod
	ReferenceNumber string
	Description     string
}

// Computer is a workstation; IPAddress is where the lock agent listens
type Computer struct {
	gorm.Model
	Name                string `gorm:"uniqueIndex;not null"`
	IPAddress           string
	Location            string
	Specifications      string
	HourlyRate          float64
	Status              models.ComputerStatus
	LastMaintenanceDate *time.Time
	MaintenanceNotes    string
}

// Session records one billable use of a computer
type Session struct {
	gorm.Model
	UserID     uint `gorm:"index;not null"`
	User       User
	ComputerID uint `gorm:"index;not null"`
	Computer   Computer
	StartTime  time.Time
	EndTime    *time.Time
	TotalCost  float64
	Status     models.SessionStatus `gorm:"index"`
	Notes      string
}

// TopUp tracks an online deposit until the payment gateway settles it
type TopUp struct {
	gorm.Model
	OrderID     string `gorm:"uniqueIndex;not null"`
	AccountID   uint   `gorm:"index;not null"`
	Amount      float64
	Status      string // "Pending", "Settled", "Failed"
	Token       string
	RedirectURL string
}

const (
	topUpPending = "Pending"
	topUpSettled = "Settled"
	topUpFailed  = "Failed"
)

func allModels() []any {
	return []any{&User{}, &Account{}, &Transaction{}, &Computer{}, &Session{}, &TopUp{}}
}

func userDTO(u User) models.User {
	return models.User{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		Address:     u.Address,
		DateOfBirth: u.DateOfBirth,
		Role:        u.Role,
		Status:      u.Status,
		CreatedAt:   u.CreatedAt,
	}
}

func accountDTO(a Account) models.Account {
	return models.Account{
		ID:              a.ID,
		UserID:          a.UserID,
		UserName:        a.User.Username,
		Balance:         a.Balance,
		CreatedDate:     a.CreatedAt,
		LastDepositDate: a.LastDepositDate,
		LastUsageDate:   a.LastUsageDate,
	}
}

func transactionDTO(t Transaction) models.Transaction {
	return models.Transaction{
		ID:              t.ID,
		AccountID:       t.AccountID,
		Amount:          t.Amount,
		Type:            t.Type,
		PaymentMethod:   t.PaymentMethod,
		ReferenceNumber: t.ReferenceNumber,
		Description:     t.Description,
		Timestamp:       t.CreatedAt,
	}
}

func computerDTO(c Computer) models.Computer {
	return models.Computer{
		ID:                  c.ID,
		Name:                c.Name,
		IPAddress:           c.IPAddress,
		Location:            c.Location,
		Specifications:      c.Specifications,
		HourlyRate:          c.HourlyRate,
		Status:              c.Status,
		LastMaintenanceDate: c.LastMaintenanceDate,
		MaintenanceNotes:    c.MaintenanceNotes,
	}
}

// sessionDTO reports elapsed time and accrued cost up to now for active sessions.
func sessionDTO(s Session, now time.Time) models.Session {
	end := now
	cost := s.TotalCost
	if s.EndTime != nil {
		end = *s.EndTime
	} else if s.Status == models.SessionActive {
		cost = accruedCost(s.Computer.HourlyRate, now.Sub(s.StartTime))
	}
	return models.Session{
		ID:           s.ID,
		UserID:       s.UserID,
		UserName:     s.User.Username,
		ComputerID:   s.ComputerID,
		ComputerName: s.Computer.Name,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		Duration:     timeSpan(end.Sub(s.StartTime)),
		TotalCost:    cost,
		Status:       s.Status,
		Notes:        s.Notes,
	}
}
