package repository

import (
	"errors"

	"github.com/iscsolutions/card_service/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PersonRepository interface {
	FindByNationalCode(nationalCode string) (*domain.Person, error)
	Save(person *domain.Person) (*domain.Person, error)
	DeleteAll() error
	Count() (int64, error)
}

type personRepository struct {
	db *gorm.DB
}

func NewPersonRepository(db *gorm.DB) PersonRepository {
	return &personRepository{db: db}
}

func (r *personRepository) FindByNationalCode(nationalCode string) (*domain.Person, error) {
	person := &domain.Person{}
	if err := r.db.Where("national_code = ?", nationalCode).First(person).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return person, nil
}

func (r *personRepository) Save(person *domain.Person) (*domain.Person, error) {
	if person == nil {
		return nil, errors.New("nil person")
	}
	if err := r.db.Omit(clause.Associations).Create(person).Error; err != nil {
		return nil, err
	}
	return person, nil
}

func (r *personRepository) DeleteAll() error {
	return r.db.Where("1 = 1").Delete(&domain.Person{}).Error
}

func (r *personRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&domain.Person{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
