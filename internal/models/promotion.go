package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PromotionStatusActive = "active"
	PromotionStatusPaused = "paused"
	PromotionStatusEnded  = "ended"
)

// Promotion 即开型抽奖活动
type Promotion struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                           // 主键
	Name          string         `gorm:"type:varchar(120);not null" json:"name"`                         // 活动名称
	Description   string         `gorm:"type:text" json:"description"`                                   // 活动说明
	StartAt       time.Time      `gorm:"index;not null" json:"start_at"`                                 // 开始时间
	EndAt         time.Time      `gorm:"index;not null" json:"end_at"`                                   // 结束时间
	PlannedTokens int64          `gorm:"not null;default:0" json:"planned_tokens"`                       // 计划发放券码总数
	Status        string         `gorm:"type:varchar(24);index;not null;default:'active'" json:"status"` // 状态
	UnitPrice     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`        // 单件售价
	UnitCost      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_cost"`         // 单件成本
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                                        // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                                 // 软删除时间
}

// TableName 指定表名
func (Promotion) TableName() string {
	return "promotions"
}

// IsOpenAt 判断活动在指定时间是否可参与
func (p *Promotion) IsOpenAt(now time.Time) bool {
	if p == nil || p.Status != PromotionStatusActive {
		return false
	}
	return !now.Before(p.StartAt) && !now.After(p.EndAt)
}
