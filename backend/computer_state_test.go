package backend

import (
	"errors"
	"sync"
	"testing"

	"netcafe/models"
)

func computerStatus(t *testing.T, b *Billing, id uint) models.ComputerStatus {
	t.Helper()
	var pc Computer
	if err := b.DB.First(&pc, id).Error; err != nil {
		t.Fatal(err)
	}
	return pc.Status
}

func TestEditComputerKeepsStatusOfRunningSession(t *testing.T) {
	b, _, _ := newTestBilling(t)
	if _, err := b.Start(studentID, pc01); err != nil {
		t.Fatal(err)
	}

	pc, err := b.EditComputer(pc01, Computer{Name: "PC-01A", IPAddress: "192.168.1.111", Location: "Phòng C", HourlyRate: 9000})
	if err != nil {
		t.Fatal(err)
	}
	if pc.Name != "PC-01A" || pc.HourlyRate != 9000 {
		t.Fatalf("edit not applied: %+v", pc)
	}
	if pc.Status != models.ComputerInUse || computerStatus(t, b, pc01) != models.ComputerInUse {
		t.Fatal("editing a computer reset its in-use status")
	}

	if _, err := b.EditComputer(pc01, Computer{Name: "PC-02"}); !errors.Is(err, ErrComputerExists) {
		t.Fatalf("duplicate name: err = %v", err)
	}
	if _, err := b.EditComputer(99, Computer{Name: "PC-99"}); !errors.Is(err, ErrComputerNotFound) {
		t.Fatalf("missing computer: err = %v", err)
	}
}

func TestStatusChangesRefusedDuringSession(t *testing.T) {
	b, _, _ := newTestBilling(t)
	s, err := b.Start(studentID, pc01)
	if err != nil {
		t.Fatal(err)
	}

	for _, st := range []models.ComputerStatus{models.ComputerAvailable, models.ComputerMaintenance, models.ComputerBroken} {
		if err := b.SetComputerStatus(pc01, st, ""); !errors.Is(err, ErrComputerBusy) {
			t.Errorf("status %d during session: err = %v", st, err)
		}
	}
	if err := b.Maintenance(pc01, "Thay bàn phím"); !errors.Is(err, ErrComputerBusy) {
		t.Errorf("maintenance during session: err = %v", err)
	}
	if computerStatus(t, b, pc01) != models.ComputerInUse {
		t.Fatal("refused change still altered the status")
	}

	if _, err := b.End(s.ID, models.SessionCompleted, ""); err != nil {
		t.Fatal(err)
	}
	if err := b.SetComputerStatus(pc01, models.ComputerMaintenance, "Vệ sinh máy"); err != nil {
		t.Fatal(err)
	}
	var pc Computer
	b.DB.First(&pc, pc01)
	if pc.Status != models.ComputerMaintenance || pc.MaintenanceNotes != "Vệ sinh máy" || pc.LastMaintenanceDate == nil {
		t.Fatalf("maintenance not recorded: %+v", pc)
	}
}

// Edits racing session starts must never leave an active session on a
// computer marked available.
func TestConcurrentEditAndStartStayConsistent(t *testing.T) {
	b, _, _ := newTestBilling(t)

	for i := 0; i < 10; i++ {
		var wg sync.WaitGroup
		var startErr error
		var session Session
		wg.Add(2)
		go func() {
			defer wg.Done()
			session, startErr = b.Start(studentID, pc01)
		}()
		go func() {
			defer wg.Done()
			if _, err := b.EditComputer(pc01, Computer{Name: "PC-01", IPAddress: "192.168.1.101", HourlyRate: 8000}); err != nil {
				t.Error(err)
			}
		}()
		wg.Wait()
		if startErr != nil {
			t.Fatal(startErr)
		}
		if got := computerStatus(t, b, pc01); got != models.ComputerInUse {
			t.Fatalf("round %d: active session on a computer with status %d", i, got)
		}
		if _, err := b.End(session.ID, models.SessionCompleted, ""); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSessionLookupFailureBlocksStatusChange(t *testing.T) {
	b, _, _ := newTestBilling(t)
	if err := b.DB.Migrator().DropTable(&Session{}); err != nil {
		t.Fatal(err)
	}

	if err := b.Maintenance(pc01, "Bảo trì"); err == nil {
		t.Fatal("maintenance went ahead without knowing about running sessions")
	}
	if err := b.SetComputerStatus(pc01, models.ComputerBroken, ""); err == nil {
		t.Fatal("status change went ahead without knowing about running sessions")
	}
	if _, err := b.Start(studentID, pc01); err == nil || errors.Is(err, ErrComputerBusy) {
		t.Fatalf("start: err = %v, want a database error", err)
	}
	if computerStatus(t, b, pc01) != models.ComputerAvailable {
		t.Fatal("failed calls changed the computer")
	}
}
