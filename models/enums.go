package models

const unknownLabel = "Không xác định"

type Role int

const (
	RoleGuest   Role = 0
	RoleStudent Role = 1
	RoleAdmin   Role = 2
)

func (r Role) Label() string {
	switch r {
	case RoleGuest:
		return "Khách"
	case RoleStudent:
		return "Sinh Viên"
	case RoleAdmin:
		return "Giáo Viên"
	default:
		return unknownLabel
	}
}

type UserStatus int

const (
	UserActive   UserStatus = 0
	UserInactive UserStatus = 1
	UserLocked   UserStatus = 2
)

func (s UserStatus) Label() string {
	switch s {
	case UserActive:
		return "Hoạt động"
	case UserInactive:
		return "Không hoạt động"
	case UserLocked:
		return "Bị khóa"
	default:
		return unknownLabel
	}
}

type ComputerStatus int

const (
	ComputerAvailable   ComputerStatus = 0
	ComputerInUse       ComputerStatus = 1
	ComputerMaintenance ComputerStatus = 2
	ComputerBroken      ComputerStatus = 3
)

func (s ComputerStatus) Label() string {
	switch s {
	case ComputerAvailable:
		return "Khả dụng"
	case ComputerInUse:
		return "Đang sử dụng"
	case ComputerMaintenance:
		return "Bảo trì"
	case ComputerBroken:
		return "Hỏng"
	default:
		return unknownLabel
	}
}

type SessionStatus int

const (
	SessionActive     SessionStatus = 0
	SessionCompleted  SessionStatus = 1
	SessionTerminated SessionStatus = 2
	SessionExpired    SessionStatus = 3
)

func (s SessionStatus) Label() string {
	switch s {
	case SessionActive:
		return "Đang hoạt động"
	case SessionCompleted:
		return "Hoàn thành"
	case SessionTerminated:
		return "Đã chấm dứt"
	case SessionExpired:
		return "Hết thời gian"
	default:
		return unknownLabel
	}
}

type TransactionType int

const (
	TxDeposit  TransactionType = 0
	TxWithdraw TransactionType = 1
	TxUsage    TransactionType = 2
	TxFee      TransactionType = 3
	TxRefund   TransactionType = 4
)

func (t TransactionType) Label() string {
	switch t {
	case TxDeposit:
		return "Nạp tiền"
	case TxWithdraw:
		return "Rút tiền"
	case TxUsage:
		return "Sử dụng máy tính"
	case TxFee:
		return "Phí dịch vụ"
	case TxRefund:
		return "Hoàn tiền"
	default:
		return unknownLabel
	}
}

type PaymentMethod int

const (
	PayCash       PaymentMethod = 0
	PayCreditCard PaymentMethod = 1
	PayDebitCard  PaymentMethod = 2
	PayEWallet    PaymentMethod = 3
)

func (m PaymentMethod) Label() string {
	switch m {
	case PayCash:
		return "Tiền mặt"
	case PayCreditCard:
		return "Thẻ tín dụng"
	case PayDebitCard:
		return "Thẻ ghi nợ"
	case PayEWallet:
		return "Ví điện tử"
	default:
		return unknownLabel
	}
}

// PaymentMethods lists the methods offered on deposit forms.
var PaymentMethods = []PaymentMethod{PayCash, PayCreditCard, PayDebitCard, PayEWallet}
