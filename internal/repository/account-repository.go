package repository

import (
	"errors"

	"github.com/iscsolutions/card_service/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountRepository interface {
	FindByAccountNumber(accountNumber string) (*domain.Account, error)
	FindAllByOwner(person *domain.Person) ([]domain.Account, error)
	Save(account *domain.Account) (*domain.Account, error)
	DeleteAll() error
	Count() (int64, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) FindByAccountNumber(accountNumber string) (*domain.Account, error) {
	account := &domain.Account{}
	err := r.db.Preload("Owner").
		Where("account_number = ?", accountNumber).
		First(account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return account, nil
}

func (r *accountRepository) FindAllByOwner(person *domain.Person) ([]domain.Account, error) {
	if person == nil {
		return nil, errors.New("nil person")
	}
	var accounts []domain.Account
	err := r.db.Preload("Owner").
		Where("person_id = ?", person.ID).
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepository) Save(account *domain.Account) (*domain.Account, error) {
	if account == nil {
		return nil, errors.New("nil account")
	}
	if err := r.db.Omit(clause.Associations).Create(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

func (r *accountRepository) DeleteAll() error {
	return r.db.Where("1 = 1").Delete(&domain.Account{}).Error
}

func (r *accountRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&domain.Account{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
