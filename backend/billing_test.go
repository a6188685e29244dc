package backend

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"netcafe/models"
)

type recordingLocker struct {
	mu    sync.Mutex
	calls []string
}

func (l *recordingLocker) Fire(ip, action string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, action+" "+ip)
}

func (l *recordingLocker) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "netcafe.db"))
	if err != nil {
		t.Fatal(err)
	}
	if err := Seed(db); err != nil {
		t.Fatal(err)
	}
	return db
}

// seeded ids
const (
	adminID   = 1
	studentID = 2
	accountID = 1
	pc01      = 1
	pc03      = 3
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time           { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestBilling(t *testing.T) (*Billing, *fakeClock, *recordingLocker) {
	t.Helper()
	locker := &recordingLocker{}
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)}
	b := NewBilling(openTestDB(t), locker)
	b.Now = clock.Now
	return b, clock, locker
}

func balance(t *testing.T, db *gorm.DB) float64 {
	t.Helper()
	var a Account
	if err := db.First(&a, accountID).Error; err != nil {
		t.Fatal(err)
	}
	return a.Balance
}

func TestAccruedCost(t *testing.T) {
	tests := []struct {
		rate    float64
		elapsed time.Duration
		want    float64
	}{
		{8000, 30 * time.Minute, 4000},
		{8000, time.Hour, 8000},
		{8000, time.Second, 2},
		{15000, 90 * time.Second, 375},
		{8000, 0, 0},
		{8000, -time.Minute, 0},
	}
	for _, tt := range tests {
		if got := accruedCost(tt.rate, tt.elapsed); got != tt.want {
			t.Errorf("accruedCost(%v, %v) = %v, want %v", tt.rate, tt.elapsed, got, tt.want)
		}
	}
}

func TestTimeSpan(t *testing.T) {
	tests := map[time.Duration]string{
		3723 * time.Second:      "01:02:03",
		25 * time.Hour:          "25:00:00",
		0:                       "00:00:00",
		-time.Second:            "00:00:00",
		1500 * time.Millisecond: "00:00:01",
	}
	for d, want := range tests {
		if got := timeSpan(d); got != want {
			t.Errorf("timeSpan(%v) = %q, want %q", d, got, want)
		}
	}
}

func TestSessionLifecycleChargesAccount(t *testing.T) {
	b, clock, locker := newTestBilling(t)

	s, err := b.Start(studentID, pc01)
	if err != nil {
		t.Fatal(err)
	}
	var pc Computer
	b.DB.First(&pc, pc01)
	if pc.Status != models.ComputerInUse {
		t.Fatalf("computer status = %v", pc.Status)
	}

	clock.Advance(30 * time.Minute)
	ended, err := b.End(s.ID, models.SessionCompleted, "")
	if err != nil {
		t.Fatal(err)
	}
	if ended.TotalCost != 4000 || ended.Status != models.SessionCompleted || ended.EndTime == nil {
		t.Fatalf("ended = %+v", ended)
	}
	if got := balance(t, b.DB); got != 46000 {
		t.Fatalf("balance = %v", got)
	}

	var usage Transaction
	if err := b.DB.Where("type = ?", models.TxUsage).First(&usage).Error; err != nil {
		t.Fatal(err)
	}
	if usage.Amount != -4000 || usage.AccountID != accountID {
		t.Fatalf("usage = %+v", usage)
	}

	b.DB.First(&pc, pc01)
	if pc.Status != models.ComputerAvailable {
		t.Fatalf("computer status after end = %v", pc.Status)
	}
	calls := locker.Calls()
	if len(calls) != 2 || calls[0] != "unlock 192.168.1.101" || calls[1] != "lock 192.168.1.101" {
		t.Fatalf("agent calls = %v", calls)
	}

	if _, err := b.End(s.ID, models.SessionCompleted, ""); !errors.Is(err, ErrSessionNotActive) {
		t.Fatalf("second end err = %v", err)
	}
}

func TestStartRefusals(t *testing.T) {
	b, _, _ := newTestBilling(t)

	if _, err := b.Start(studentID, pc01); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Start(studentID, 2); !errors.Is(err, ErrUserHasActiveSession) {
		t.Errorf("second session err = %v", err)
	}
	if _, err := b.Start(adminID, pc01); !errors.Is(err, ErrComputerBusy) {
		t.Errorf("busy computer err = %v", err)
	}
	if _, err := b.Start(adminID, 2); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("no account err = %v", err)
	}

	b.DB.Model(&Computer{}).Where("id = ?", 2).Update("status", models.ComputerMaintenance)
	b.DB.Create(&Account{UserID: adminID, Balance: 100000})
	if _, err := b.Start(adminID, 2); !errors.Is(err, ErrComputerUnavailable) {
		t.Errorf("maintenance err = %v", err)
	}
	if _, err := b.Start(adminID, 99); !errors.Is(err, ErrComputerNotFound) {
		t.Errorf("unknown computer err = %v", err)
	}
}

func TestStartNeedsQuarterHourOfBalance(t *testing.T) {
	b, _, _ := newTestBilling(t)
	// PC-03 costs 15000/h so the floor is 3750.
	b.DB.Model(&Account{}).Where("id = ?", accountID).Update("balance", 3749)
	if _, err := b.Start(studentID, pc03); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("err = %v", err)
	}
	b.DB.Model(&Account{}).Where("id = ?", accountID).Update("balance", 3750)
	if _, err := b.Start(studentID, pc03); err != nil {
		t.Fatal(err)
	}
}

func TestStartRefusesLockedUser(t *testing.T) {
	b, _, _ := newTestBilling(t)
	b.DB.Model(&User{}).Where("id = ?", studentID).Update("status", models.UserLocked)
	if _, err := b.Start(studentID, pc01); !errors.Is(err, ErrUserLocked) {
		t.Fatalf("err = %v", err)
	}
}

func TestEndNeverChargesMoreThanBalance(t *testing.T) {
	b, clock, _ := newTestBilling(t)
	b.DB.Model(&Account{}).Where("id = ?", accountID).Update("balance", 2000)

	s, err := b.Start(studentID, pc01)
	if err != nil {
		t.Fatal(err)
	}
	clock.Advance(2 * time.Hour)
	ended, err := b.End(s.ID, models.SessionTerminated, "test")
	if err != nil {
		t.Fatal(err)
	}
	if ended.TotalCost != 2000 || ended.Notes != "test" {
		t.Fatalf("ended = %+v", ended)
	}
	if got := balance(t, b.DB); got != 0 {
		t.Fatalf("balance = %v", got)
	}
}

func TestExpireExhausted(t *testing.T) {
	b, clock, _ := newTestBilling(t)
	b.DB.Model(&Account{}).Where("id = ?", accountID).Update("balance", 2000)
	s, err := b.Start(studentID, pc01)
	if err != nil {
		t.Fatal(err)
	}

	clock.Advance(10 * time.Minute)
	if n, err := b.ExpireExhausted(); err != nil || n != 0 {
		t.Fatalf("early sweep = %d, %v", n, err)
	}

	clock.Advance(5 * time.Minute)
	n, err := b.ExpireExhausted()
	if err != nil || n != 1 {
		t.Fatalf("sweep = %d, %v", n, err)
	}
	var got Session
	b.DB.First(&got, s.ID)
	if got.Status != models.SessionExpired || got.TotalCost != 2000 {
		t.Fatalf("session = %+v", got)
	}
}

func TestRemaining(t *testing.T) {
	b, clock, _ := newTestBilling(t)
	left, err := b.Remaining(studentID, pc01)
	if err != nil {
		t.Fatal(err)
	}
	if timeSpan(left) != "06:15:00" {
		t.Fatalf("remaining = %s", timeSpan(left))
	}

	if _, err := b.Start(studentID, pc01); err != nil {
		t.Fatal(err)
	}
	clock.Advance(time.Hour)
	left, _ = b.Remaining(studentID, pc01)
	if timeSpan(left) != "05:15:00" {
		t.Fatalf("remaining while running = %s", timeSpan(left))
	}
}

func TestDepositWithdraw(t *testing.T) {
	b, _, _ := newTestBilling(t)

	if _, err := b.Deposit(accountID, 0, models.PayCash, "", ""); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero deposit err = %v", err)
	}
	line, err := b.Deposit(accountID, 20000, models.PayCash, "R-1", "")
	if err != nil {
		t.Fatal(err)
	}
	if line.Type != models.TxDeposit || line.Amount != 20000 || *line.PaymentMethod != models.PayCash {
		t.Fatalf("deposit line = %+v", line)
	}
	if got := balance(t, b.DB); got != 70000 {
		t.Fatalf("balance = %v", got)
	}

	if _, err := b.Withdraw(accountID, 70001, ""); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("overdraw err = %v", err)
	}
	line, err = b.Withdraw(accountID, 70000, "")
	if err != nil {
		t.Fatal(err)
	}
	if line.Amount != -70000 || line.Type != models.TxWithdraw {
		t.Fatalf("withdraw line = %+v", line)
	}
	if got := balance(t, b.DB); got != 0 {
		t.Fatalf("balance = %v", got)
	}
}

func TestSettleCreditsOnce(t *testing.T) {
	b, _, _ := newTestBilling(t)
	b.DB.Create(&TopUp{OrderID: "TOPUP-1", AccountID: accountID, Amount: 10000, Status: topUpPending})

	first, err := b.Settle("TOPUP-1", "TOPUP-1")
	if err != nil || !first {
		t.Fatalf("first settle = %v, %v", first, err)
	}
	again, err := b.Settle("TOPUP-1", "TOPUP-1")
	if err != nil || again {
		t.Fatalf("second settle = %v, %v", again, err)
	}
	if got := balance(t, b.DB); got != 60000 {
		t.Fatalf("balance = %v", got)
	}
}
