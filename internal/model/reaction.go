package model

import "time"

// Reaction 消息表情回应，(消息, 用户, 表情) 唯一，重复提交即取消。
// 唯一约束由数据库索引兜底，应用层不做去重。
type Reaction struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	MessageID uint64    `gorm:"index:idx_msg_user_emoji,unique" json:"messageId"`
	UserID    uint64    `gorm:"index:idx_msg_user_emoji,unique" json:"userId"`
	Emoji     string    `gorm:"type:varchar(32);index:idx_msg_user_emoji,unique" json:"emoji"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Reaction) TableName() string { return "reactions" }
