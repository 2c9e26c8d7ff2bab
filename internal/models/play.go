package models

import "time"

// PlayRejectReason 抽奖请求被拒绝的原因
type PlayRejectReason string

const (
	PlayRejectNone              PlayRejectReason = ""
	PlayRejectTokenNotFound     PlayRejectReason = "TOKEN_NOT_FOUND"
	PlayRejectTokenUsed         PlayRejectReason = "TOKEN_USED"
	PlayRejectTokenMismatch     PlayRejectReason = "TOKEN_MISMATCH"
	PlayRejectPromotionInactive PlayRejectReason = "PROMOTION_INACTIVE"
	PlayRejectCustomerNotFound  PlayRejectReason = "CUSTOMER_NOT_FOUND"
)

// Play 抽奖记录（创建后不再修改）
type Play struct {
	ID             uint       `gorm:"primarykey" json:"id"`                                 // 主键
	PromotionID    uint       `gorm:"index;not null" json:"promotion_id"`                   // 活动ID
	TokenID        uint       `gorm:"uniqueIndex;not null" json:"token_id"`                 // 券码ID（一张券码只允许一条记录）
	CustomerID     uint       `gorm:"index;not null" json:"customer_id"`                    // 顾客ID
	IsWinner       bool       `gorm:"index;not null;default:false" json:"is_winner"`        // 是否中奖
	PrizeTypeID    *uint      `gorm:"index" json:"prize_type_id,omitempty"`                 // 中奖奖品ID
	Outcome        string     `gorm:"type:varchar(24);not null;default:''" json:"outcome"`  // 判定结果
	Downgraded     bool       `gorm:"not null;default:false" json:"downgraded"`             // 判定中奖但库存已被抢完
	Category       string     `gorm:"type:varchar(1);not null;default:'U'" json:"category"` // 判定时使用的人群类别
	Fatigue        float64    `gorm:"not null;default:1" json:"fatigue"`                    // 疲劳系数
	Pacing         float64    `gorm:"not null;default:1" json:"pacing"`                     // 节奏系数
	GlobalModifier float64    `gorm:"not null;default:1" json:"global_modifier"`            // 全局系数
	Draw           float64    `gorm:"not null;default:0" json:"draw"`                       // 随机数
	WinMass        float64    `gorm:"not null;default:0" json:"win_mass"`                   // 累计中奖概率
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`                              // 创建时间
	Token          *Token     `gorm:"foreignKey:TokenID" json:"token,omitempty"`            // 券码
	Customer       *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`      // 顾客
	PrizeType      *PrizeType `gorm:"foreignKey:PrizeTypeID" json:"prize_type,omitempty"`   // 奖品
}

// TableName 指定表名
func (Play) TableName() string {
	return "plays"
}
