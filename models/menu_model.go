package models

import (
	"time"

	"menu-app/types"
)

// Menu is the root entity of one navigation tree. Items hang off a menu per
// locale; the menu row itself carries no locale.
type Menu struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy int       `json:"created_by"`
	UpdatedBy int       `json:"updated_by"`
}

// MenuItem is one node of a menu tree.
//
// Path is the materialized ancestor chain (dot-joined snowflake ids, ending
// in the item's own id) and is recomputed whenever ParentID changes.
// MenuOrder is 1-based and dense within each (menu, locale, parent) sibling
// scope.
type MenuItem struct {
	ID        types.SnowflakeID  `json:"id" gorm:"primaryKey;autoIncrement:false"`
	MenuID    uint               `json:"menu_id" gorm:"index:idx_menu_items_scope;not null"`
	Locale    string             `json:"locale" gorm:"index:idx_menu_items_scope;not null"`
	ParentID  *types.SnowflakeID `json:"parent_id" gorm:"index:idx_menu_items_scope"`
	Path      string             `json:"path" gorm:"index;not null"`
	MenuOrder int                `json:"order" gorm:"column:menu_order;index:idx_menu_items_scope"`
	Type      string             `json:"type" gorm:"not null"`
	Name      string             `json:"name"`
	Fields    types.FieldBag     `json:"fields" gorm:"type:text"`
	Enabled   bool               `json:"enabled" gorm:"default:true"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	CreatedBy int                `json:"created_by"`
	UpdatedBy int                `json:"updated_by"`
}

// IsRoot reports whether the item sits directly under its menu.
func (m *MenuItem) IsRoot() bool {
	return m.ParentID == nil
}
