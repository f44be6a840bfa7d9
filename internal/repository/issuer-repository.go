package repository

import (
	"errors"

	"github.com/iscsolutions/card_service/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IssuerRepository interface {
	FindByIssuerCode(issuerCode string) (*domain.Issuer, error)
	Save(issuer *domain.Issuer) (*domain.Issuer, error)
	DeleteAll() error
	Count() (int64, error)
}

type issuerRepository struct {
	db *gorm.DB
}

func NewIssuerRepository(db *gorm.DB) IssuerRepository {
	return &issuerRepository{db: db}
}

func (r *issuerRepository) FindByIssuerCode(issuerCode string) (*domain.Issuer, error) {
	issuer := &domain.Issuer{}
	if err := r.db.Where("issuer_code = ?", issuerCode).First(issuer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return issuer, nil
}

func (r *issuerRepository) Save(issuer *domain.Issuer) (*domain.Issuer, error) {
	if issuer == nil {
		return nil, errors.New("nil issuer")
	}
	if err := r.db.Omit(clause.Associations).Create(issuer).Error; err != nil {
		return nil, err
	}
	return issuer, nil
}

func (r *issuerRepository) DeleteAll() error {
	return r.db.Where("1 = 1").Delete(&domain.Issuer{}).Error
}

func (r *issuerRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&domain.Issuer{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
