package models

import "time"

// Customer 活动参与者，同一活动内手机号唯一
type Customer struct {
	ID                 uint       `gorm:"primarykey" json:"id"`                                                            // 主键
	PromotionID        uint       `gorm:"not null;uniqueIndex:idx_customer_promotion_phone" json:"promotion_id"`           // 活动ID
	Phone              string     `gorm:"type:varchar(32);not null;uniqueIndex:idx_customer_promotion_phone" json:"phone"` // 手机号
	FirstName          string     `gorm:"type:varchar(80);not null" json:"first_name"`                                     // 名
	LastName           string     `gorm:"type:varchar(80);not null;default:''" json:"last_name"`                           // 姓
	Gender             string     `gorm:"type:varchar(1);not null;default:'U'" json:"gender"`                              // 推断类别（F/M/U）
	GenderConfidence   string     `gorm:"type:varchar(16);not null;default:'low'" json:"gender_confidence"`                // 推断置信度
	TotalPlays         int64      `gorm:"index;not null;default:0" json:"total_plays"`                                     // 累计参与次数
	TotalWins          int64      `gorm:"not null;default:0" json:"total_wins"`                                            // 累计中奖次数
	ConsentTerms       bool       `gorm:"not null;default:false" json:"consent_terms"`                                     // 同意条款
	ConsentTermsAt     *time.Time `json:"consent_terms_at"`                                                                // 同意条款时间
	ConsentMarketing   bool       `gorm:"not null;default:false" json:"consent_marketing"`                                 // 同意营销
	ConsentMarketingAt *time.Time `json:"consent_marketing_at"`                                                            // 同意营销时间
	LastPlayAt         *time.Time `gorm:"index" json:"last_play_at"`                                                       // 最近参与时间
	CreatedAt          time.Time  `gorm:"index" json:"created_at"`                                                         // 创建时间
	UpdatedAt          time.Time  `gorm:"index" json:"updated_at"`                                                         // 更新时间
}

// TableName 指定表名
func (Customer) TableName() string {
	return "customers"
}
