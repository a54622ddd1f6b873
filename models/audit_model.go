package models

import (
	"time"

	"menu-app/types"
)

// Audit actions recorded per affected row.
const (
	AuditCreated      = "created"
	AuditUpdated      = "updated"
	AuditDeleted      = "deleted"
	AuditOrderShifted = "order_shifted"
	AuditDuplicated   = "duplicated"
	AuditCopied       = "copied"
	AuditReordered    = "reordered"
)

// MenuChangeLog records one observable mutation of one menu item. Order
// shifts are logged row by row so downstream consumers see every touched
// sibling, not just the item the request named.
type MenuChangeLog struct {
	ID        uint              `json:"id" gorm:"primaryKey"`
	ItemID    types.SnowflakeID `json:"item_id" gorm:"index"`
	MenuID    uint              `json:"menu_id" gorm:"index"`
	Action    string            `json:"action" gorm:"not null"`
	Detail    string            `json:"detail"`
	CreatedAt time.Time         `json:"created_at"`
	CreatedBy int               `json:"created_by"`
}
