package domain

type Account struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	AccountNumber string      `gorm:"type:varchar(10);uniqueIndex;not null" json:"account_number"`
	AccountType   AccountType `gorm:"type:varchar(20);not null" json:"account_type"`
	PersonID      uint        `gorm:"index;not null" json:"-"`
	Owner         *Person     `gorm:"foreignKey:PersonID" json:"owner,omitempty"`
	Cards         []Card      `gorm:"foreignKey:AccountID" json:"-"`
}
