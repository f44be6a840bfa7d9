package domain

type Person struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	NationalCode string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"national_code"`
	FirstName    string    `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName     string    `gorm:"type:varchar(50);not null" json:"last_name"`
	Phone        string    `gorm:"type:varchar(11);not null" json:"phone"`
	Address      string    `gorm:"type:varchar(255);not null" json:"address"`
	Accounts     []Account `gorm:"foreignKey:PersonID" json:"-"`
}
