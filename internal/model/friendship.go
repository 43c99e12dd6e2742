package model

import (
	"gorm.io/gorm"
)

// Friendship stores an unordered pair under its canonical key. Existence of
// the row is "friends"; removal deletes the row. There is no status column
// and no soft-delete limbo: DeletedAt is unset because removal is a hard
// delete through Unscoped.
type Friendship struct {
	gorm.Model
	PairKey string `gorm:"column:pair_key;uniqueIndex;type:char(41);not null"`
	UserAId string `gorm:"column:user_a_id;index;type:char(20);not null"` // low id of the pair
	UserBId string `gorm:"column:user_b_id;index;type:char(20);not null"` // high id of the pair
}

func (Friendship) TableName() string {
	return "friendship"
}

// Other returns the opposite member of the pair.
func (f *Friendship) Other(userId string) string {
	if f.UserAId == userId {
		return f.UserBId
	}
	return f.UserAId
}
