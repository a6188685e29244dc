package backend

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"netcafe/agent"
	"netcafe/models"
)

var secondsPerHour = decimal.NewFromInt(3600)

// accruedCost is rate per hour times elapsed seconds, rounded to whole dong.
func accruedCost(rate float64, elapsed time.Duration) float64 {
	if elapsed <= 0 || rate <= 0 {
		return 0
	}
	secs := decimal.NewFromFloat(elapsed.Seconds()).Truncate(0)
	return decimal.NewFromFloat(rate).Mul(secs).Div(secondsPerHour).Round(0).InexactFloat64()
}

// timeSpan renders d as HH:MM:SS with hours growing past 24.
func timeSpan(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
}

func addMoney(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).InexactFloat64()
}

// Locker is told when a workstation should be unlocked or locked.
type Locker interface {
	Fire(ip, action string)
}

// Billing owns every balance and session state change. Calls are
// serialized so two requests can never both pass the same precondition.
type Billing struct {
	DB    *gorm.DB
	Agent Locker
	Now   func() time.Time

	mu sync.Mutex
}

func NewBilling(db *gorm.DB, locker Locker) *Billing {
	return &Billing{DB: db, Agent: locker, Now: time.Now}
}

func (b *Billing) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

func (b *Billing) fire(ip, action string) {
	if b.Agent != nil && ip != "" {
		b.Agent.Fire(ip, action)
	}
}

// activeSessions counts the active sessions whose column equals id.
func activeSessions(tx *gorm.DB, column string, id uint) (int64, error) {
	var n int64
	err := tx.Model(&Session{}).Where(column+" = ? AND status = ?", id, models.SessionActive).Count(&n).Error
	return n, err
}

func notFound(err, replacement error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return replacement
	}
	return err
}

// Start opens a session for userID on computerID. The account must hold at
// least a quarter of an hour at the computer's rate.
func (b *Billing) Start(userID, computerID uint) (Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var session Session
	err := b.DB.Transaction(func(tx *gorm.DB) error {
		var user User
		if err := tx.First(&user, userID).Error; err != nil {
			return notFound(err, ErrUserNotFound)
		}
		if user.Status != models.UserActive {
			return ErrUserLocked
		}

		open, err := activeSessions(tx, "user_id", userID)
		if err != nil {
			return err
		}
		if open > 0 {
			return ErrUserHasActiveSession
		}

		var computer Computer
		if err := tx.First(&computer, computerID).Error; err != nil {
			return notFound(err, ErrComputerNotFound)
		}
		if open, err = activeSessions(tx, "computer_id", computerID); err != nil {
			return err
		}
		if open > 0 {
			return ErrComputerBusy
		}
		if computer.Status != models.ComputerAvailable {
			return ErrComputerUnavailable
		}

		var account Account
		if err := tx.Where("user_id = ?", userID).First(&account).Error; err != nil {
			return notFound(err, ErrAccountNotFound)
		}
		minimum := decimal.NewFromFloat(computer.HourlyRate).Div(decimal.NewFromInt(4))
		if decimal.NewFromFloat(account.Balance).LessThan(minimum) {
			return ErrInsufficientBalance
		}

		session = Session{
			UserID:     userID,
			ComputerID: computerID,
			StartTime:  b.now(),
			Status:     models.SessionActive,
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}
		computer.Status = models.ComputerInUse
		if err := tx.Model(&computer).Update("status", computer.Status).Error; err != nil {
			return err
		}
		session.Computer = computer
		session.User = user
		return nil
	})
	if err != nil {
		return Session{}, err
	}

	b.fire(session.Computer.IPAddress, agent.Unlock)
	return session, nil
}

// End closes an active session with the given final status, charging the
// accrued cost. The charge never exceeds the balance.
func (b *Billing) End(sessionID uint, status models.SessionStatus, note string) (Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var session Session
	err := b.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("User").Preload("Computer").First(&session, sessionID).Error; err != nil {
			return notFound(err, ErrSessionNotFound)
		}
		if session.Status != models.SessionActive {
			return ErrSessionNotActive
		}

		now := b.now()
		elapsed := now.Sub(session.StartTime)
		cost := accruedCost(session.Computer.HourlyRate, elapsed)

		var account Account
		hasAccount := tx.Where("user_id = ?", session.UserID).First(&account).Error == nil
		if !hasAccount {
			cost = 0
		} else if cost > account.Balance {
			cost = account.Balance
		}

		session.EndTime = &now
		session.TotalCost = cost
		session.Status = status
		session.Notes = note
		if err := tx.Omit("User", "Computer").Save(&session).Error; err != nil {
			return err
		}

		if hasAccount && cost > 0 {
			account.Balance = addMoney(account.Balance, -cost)
			account.LastUsageDate = &now
			if err := tx.Save(&account).Error; err != nil {
				return err
			}
			usage := Transaction{
				AccountID:       account.ID,
				Amount:          -cost,
				Type:            models.TxUsage,
				ReferenceNumber: fmt.Sprintf("SESSION-%d", session.ID),
				Description:     fmt.Sprintf("Sử dụng máy %s (%s)", session.Computer.Name, timeSpan(elapsed)),
			}
			if err := tx.Create(&usage).Error; err != nil {
				return err
			}
		}

		if session.Computer.Status == models.ComputerInUse {
			session.Computer.Status = models.ComputerAvailable
			if err := tx.Model(&session.Computer).Update("status", session.Computer.Status).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Session{}, err
	}

	b.fire(session.Computer.IPAddress, agent.Lock)
	return session, nil
}

// Remaining is how long the user's balance lasts at the computer's rate.
func (b *Billing) Remaining(userID, computerID uint) (time.Duration, error) {
	var computer Computer
	if err := b.DB.First(&computer, computerID).Error; err != nil {
		return 0, notFound(err, ErrComputerNotFound)
	}
	var account Account
	if err := b.DB.Where("user_id = ?", userID).First(&account).Error; err != nil {
		return 0, notFound(err, ErrAccountNotFound)
	}
	balance := account.Balance

	// An open session on this computer is already eating into the balance.
	var active Session
	if b.DB.Where("user_id = ? AND computer_id = ? AND status = ?", userID, computerID, models.SessionActive).
		First(&active).Error == nil {
		balance -= accruedCost(computer.HourlyRate, b.now().Sub(active.StartTime))
	}
	if computer.HourlyRate <= 0 || balance <= 0 {
		return 0, nil
	}
	secs := decimal.NewFromFloat(balance).Mul(secondsPerHour).Div(decimal.NewFromFloat(computer.HourlyRate)).IntPart()
	return time.Duration(secs) * time.Second, nil
}

// Deposit credits an account and records the ledger line.
func (b *Billing) Deposit(accountID uint, amount float64, method models.PaymentMethod, reference, description string) (Transaction, error) {
	if amount <= 0 {
		return Transaction{}, ErrInvalidAmount
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	var line Transaction
	err := b.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		line, err = credit(tx, accountID, amount, method, reference, description, b.now())
		return err
	})
	return line, err
}

func credit(tx *gorm.DB, accountID uint, amount float64, method models.PaymentMethod, reference, description string, now time.Time) (Transaction, error) {
	var account Account
	if err := tx.First(&account, accountID).Error; err != nil {
		return Transaction{}, notFound(err, ErrAccountNotFound)
	}
	account.Balance = addMoney(account.Balance, amount)
	account.LastDepositDate = &now
	if err := tx.Save(&account).Error; err != nil {
		return Transaction{}, err
	}
	if description == "" {
		description = "Nạp tiền vào tài khoản"
	}
	line := Transaction{
		AccountID:       account.ID,
		Amount:          amount,
		Type:            models.TxDeposit,
		PaymentMethod:   &method,
		ReferenceNumber: reference,
		Description:     description,
	}
	if err := tx.Create(&line).Error; err != nil {
		return Transaction{}, err
	}
	return line, nil
}

// Withdraw debits an account; the amount may not exceed the balance.
func (b *Billing) Withdraw(accountID uint, amount float64, reason string) (Transaction, error) {
	if amount <= 0 {
		return Transaction{}, ErrInvalidAmount
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	var line Transaction
	err := b.DB.Transaction(func(tx *gorm.DB) error {
		var account Account
		if err := tx.First(&account, accountID).Error; err != nil {
			return notFound(err, ErrAccountNotFound)
		}
		if amount > account.Balance {
			return ErrInsufficientBalance
		}
		account.Balance = addMoney(account.Balance, -amount)
		if err := tx.Save(&account).Error; err != nil {
			return err
		}
		if reason == "" {
			reason = "Rút tiền từ tài khoản"
		}
		line = Transaction{
			AccountID:   account.ID,
			Amount:      -amount,
			Type:        models.TxWithdraw,
			Description: reason,
		}
		return tx.Create(&line).Error
	})
	return line, err
}

// Settle credits a pending online top-up. It returns false when the top-up
// was already settled or failed, so a repeated notification changes nothing.
func (b *Billing) Settle(orderID, reference string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	settled := false
	err := b.DB.Transaction(func(tx *gorm.DB) error {
		var topUp TopUp
		if err := tx.Where("order_id = ?", orderID).First(&topUp).Error; err != nil {
			return err
		}
		if topUp.Status != topUpPending {
			return nil
		}
		topUp.Status = topUpSettled
		if err := tx.Save(&topUp).Error; err != nil {
			return err
		}
		if _, err := credit(tx, topUp.AccountID, topUp.Amount, models.PayEWallet, reference, "Nạp tiền trực tuyến "+orderID, b.now()); err != nil {
			return err
		}
		settled = true
		return nil
	})
	return settled, err
}

// ExpireExhausted ends every active session whose accrued cost has reached
// the user's balance and reports how many were expired.
func (b *Billing) ExpireExhausted() (int, error) {
	var active []Session
	if err := b.DB.Preload("Computer").Where("status = ?", models.SessionActive).Find(&active).Error; err != nil {
		return 0, err
	}
	expired := 0
	now := b.now()
	for _, s := range active {
		var account Account
		if err := b.DB.Where("user_id = ?", s.UserID).First(&account).Error; err != nil {
			continue
		}
		if accruedCost(s.Computer.HourlyRate, now.Sub(s.StartTime)) < account.Balance {
			continue
		}
		if _, err := b.End(s.ID, models.SessionExpired, "Hết số dư tài khoản"); err != nil {
			if errors.Is(err, ErrSessionNotActive) {
				continue
			}
			return expired, err
		}
		expired++
	}
	return expired, nil
}

// EditComputer writes the descriptive columns of a computer. Status and
// maintenance columns are left to the status methods below.
func (b *Billing) EditComputer(id uint, edit Computer) (Computer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var pc Computer
	err := b.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&pc, id).Error; err != nil {
			return notFound(err, ErrComputerNotFound)
		}
		var taken int64
		if err := tx.Model(&Computer{}).Where("name = ? AND id <> ?", edit.Name, id).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrComputerExists
		}
		err := tx.Model(&pc).Select("Name", "IPAddress", "Location", "Specifications", "HourlyRate").Updates(&edit).Error
		if err != nil {
			return err
		}
		return tx.First(&pc, id).Error
	})
	return pc, err
}

// SetComputerStatus is refused while a session runs on the computer,
// unless the requested status is in-use. Maintenance stamps the date and
// keeps the previous notes when reason is empty.
func (b *Billing) SetComputerStatus(id uint, status models.ComputerStatus, reason string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.DB.Transaction(func(tx *gorm.DB) error {
		var pc Computer
		if err := tx.First(&pc, id).Error; err != nil {
			return notFound(err, ErrComputerNotFound)
		}
		if status != models.ComputerInUse {
			open, err := activeSessions(tx, "computer_id", id)
			if err != nil {
				return err
			}
			if open > 0 {
				return ErrComputerBusy
			}
		}
		changes := map[string]interface{}{"status": status}
		if status == models.ComputerMaintenance {
			changes["last_maintenance_date"] = b.now()
			if reason != "" {
				changes["maintenance_notes"] = reason
			}
		}
		return tx.Model(&pc).Updates(changes).Error
	})
}

// Maintenance takes an idle computer out of service with reason as its notes.
func (b *Billing) Maintenance(id uint, reason string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.DB.Transaction(func(tx *gorm.DB) error {
		var pc Computer
		if err := tx.First(&pc, id).Error; err != nil {
			return notFound(err, ErrComputerNotFound)
		}
		open, err := activeSessions(tx, "computer_id", id)
		if err != nil {
			return err
		}
		if pc.Status == models.ComputerInUse || open > 0 {
			return ErrComputerBusy
		}
		return tx.Model(&pc).Updates(map[string]interface{}{
			"status":                models.ComputerMaintenance,
			"last_maintenance_date": b.now(),
			"maintenance_notes":     reason,
		}).Error
	})
}
