package model

import "time"

const (
	ActivityLogin             = "LOGIN"
	ActivityCreateOrder       = "CREATE_ORDER"
	ActivityUpdateOrderStatus = "UPDATE_ORDER_STATUS"
	ActivityCheckout          = "CHECKOUT"
	ActivityCreateBackup      = "CREATE_BACKUP"
	ActivityRestoreBackup     = "RESTORE_BACKUP"
	ActivityBackupSettings    = "UPDATE_BACKUP_SETTINGS"
	ActivityManageUser        = "MANAGE_USER"
	ActivityManageStore       = "MANAGE_STORE"
)

type ActivityLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	StoreID   *uint     `gorm:"index" json:"store_id,omitempty"`
	Action    string    `gorm:"type:varchar(50);not null;index" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
