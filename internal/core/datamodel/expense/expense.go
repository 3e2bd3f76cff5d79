package expense

import "time"

type Expense struct {
	ID        int64      `gorm:"primaryKey"`
	Amount    float64    `gorm:"column:amount;not null"`
	Date      time.Time  `gorm:"column:date;type:date;not null;index"`
	Note      *string    `gorm:"column:note;size:200"`
	Category  string     `gorm:"column:category;size:50;index"`
	CreatedOn time.Time  `gorm:"column:created_on"`
	CreatedBy string     `gorm:"column:created_by;size:100"`
	UpdatedOn *time.Time `gorm:"column:updated_on"`
	UpdatedBy *string    `gorm:"column:updated_by;size:100"`
	IsActive  bool       `gorm:"column:is_active;default:true"`
}

func (Expense) TableName() string {
	return "expenses"
}
