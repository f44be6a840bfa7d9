package repository

import (
	"errors"

	"github.com/iscsolutions/card_service/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CardRepository interface {
	FindByCardNumber(cardNumber string) (*domain.Card, error)
	FindAllByAccount(account *domain.Account) ([]domain.Card, error)
	Save(card *domain.Card) (*domain.Card, error)
	DeleteAll() error
	Count() (int64, error)
}

type cardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) FindByCardNumber(cardNumber string) (*domain.Card, error) {
	card := &domain.Card{}
	err := r.db.Preload("Account.Owner").Preload("Issuer").
		Where("card_number = ?", cardNumber).
		First(card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return card, nil
}

func (r *cardRepository) FindAllByAccount(account *domain.Account) ([]domain.Card, error) {
	if account == nil {
		return nil, errors.New("nil account")
	}
	var cards []domain.Card
	err := r.db.Preload("Account.Owner").Preload("Issuer").
		Where("account_id = ?", account.ID).
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *cardRepository) Save(card *domain.Card) (*domain.Card, error) {
	if card == nil {
		return nil, errors.New("nil card")
	}
	if err := r.db.Omit(clause.Associations).Create(card).Error; err != nil {
		return nil, err
	}
	return card, nil
}

func (r *cardRepository) DeleteAll() error {
	return r.db.Where("1 = 1").Delete(&domain.Card{}).Error
}

func (r *cardRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&domain.Card{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
