package domain

type Issuer struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	IssuerCode string `gorm:"type:varchar(6);uniqueIndex;not null" json:"issuer_code"`
	Name       string `gorm:"type:varchar(100);not null" json:"name"`
	Cards      []Card `gorm:"foreignKey:IssuerID" json:"-"`
}
