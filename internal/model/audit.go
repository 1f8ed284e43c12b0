package model

// AccessDecision is one recorded gate decision, written asynchronously by
// the audit sink. Rows are append-only.
type AccessDecision struct {
	ID          uint64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      string     `json:"user_id" gorm:"size:32;index:idx_access_decisions_user_id"`
	Username    string     `json:"username" gorm:"size:64;index:idx_access_decisions_username"`
	Permissions StringList `json:"permissions" gorm:"type:text"`
	Roles       StringList `json:"roles" gorm:"type:text"`
	Domain      string     `json:"domain" gorm:"size:64"`
	Allowed     bool       `json:"allowed" gorm:"index:idx_allowed"`
	Reason      string     `json:"reason" gorm:"size:64"`
	IP          string     `json:"ip" gorm:"size:64"`
	DecidedAt   int64      `json:"decided_at" gorm:"index:idx_decided_at"`
	CreatedAt   int64      `json:"created_at" gorm:"autoCreateTime:milli"`
}

// TableName returns the table name for GORM.
func (d *AccessDecision) TableName() string {
	return "access_decisions"
}

// LoginLog records a login attempt, successful or not.
type LoginLog struct {
	ID        uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string `json:"user_id" gorm:"size:32;index:idx_login_logs_user_id"`
	Username  string `json:"username" gorm:"size:64;index:idx_login_logs_username"`
	IP        string `json:"ip" gorm:"size:64"`
	UserAgent string `json:"user_agent" gorm:"size:255"`
	Status    int    `json:"status" gorm:"default:0"`
	Message   string `json:"message" gorm:"size:255"`
	CreatedAt int64  `json:"created_at" gorm:"autoCreateTime:milli"`
}

// Login log statuses.
const (
	LoginFailed  = 0
	LoginSucceed = 1
)

// TableName returns the table name for GORM.
func (l *LoginLog) TableName() string {
	return "login_logs"
}
