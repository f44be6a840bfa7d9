package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/iscsolutions/card_service/internal/cache"
	"github.com/iscsolutions/card_service/internal/domain"
	"github.com/iscsolutions/card_service/internal/dto"
	"github.com/iscsolutions/card_service/internal/interfaces"
	"github.com/iscsolutions/card_service/internal/repository"
)

type CardService interface {
	FindPerson(nationalCode string) (*domain.Person, error)
	FindIssuer(issuerCode string) (*domain.Issuer, error)
	FindAccount(accountNumber string) (*domain.Account, error)
	GetCardsByNationalCode(nationalCode string) ([]*domain.Card, error)
	SaveCard(card *domain.Card) (*domain.Card, error)
	CreateCard(input dto.CreateCardRequest) (*domain.Card, error)
	ClearAll()
	ClearAllIncludingDatabase() error
	Statistics() map[string]int
}

type cardService struct {
	cache       *cache.Store
	personRepo  repository.PersonRepository
	issuerRepo  repository.IssuerRepository
	accountRepo repository.AccountRepository
	cardRepo    repository.CardRepository

	// messaging
	producer interfaces.ProducerHandler
}

func NewCardService(
	store *cache.Store,
	personRepo repository.PersonRepository,
	issuerRepo repository.IssuerRepository,
	accountRepo repository.AccountRepository,
	cardRepo repository.CardRepository,
	producer interfaces.ProducerHandler,
) CardService {
	return &cardService{
		cache:       store,
		personRepo:  personRepo,
		issuerRepo:  issuerRepo,
		accountRepo: accountRepo,
		cardRepo:    cardRepo,
		producer:    producer,
	}
}

// FindPerson returns the cached person, reading through to the database
// on a miss. A miss in both layers returns (nil, nil).
func (s *cardService) FindPerson(nationalCode string) (*domain.Person, error) {
	if person, ok := s.cache.Person(nationalCode); ok {
		return person, nil
	}
	person, err := s.personRepo.FindByNationalCode(nationalCode)
	if err != nil {
		return nil, err
	}
	if person != nil {
		s.cache.PutPerson(person)
	}
	return person, nil
}

// FindIssuer reads through to the database like FindPerson does. The
// reconciling fallback applies to all three reference lookups.
func (s *cardService) FindIssuer(issuerCode string) (*domain.Issuer, error) {
	if issuer, ok := s.cache.Issuer(issuerCode); ok {
		return issuer, nil
	}
	issuer, err := s.issuerRepo.FindByIssuerCode(issuerCode)
	if err != nil {
		return nil, err
	}
	if issuer != nil {
		s.cache.PutIssuer(issuer)
	}
	return issuer, nil
}

func (s *cardService) FindAccount(accountNumber string) (*domain.Account, error) {
	if account, ok := s.cache.Account(accountNumber); ok {
		return account, nil
	}
	account, err := s.accountRepo.FindByAccountNumber(accountNumber)
	if err != nil {
		return nil, err
	}
	if account != nil {
		s.cache.PutAccount(account)
	}
	return account, nil
}

// GetCardsByNationalCode returns the cached card set when present and
// non-empty. Otherwise it re-derives the set from the database: person,
// then the person's accounts, then every card on those accounts, indexing
// each loaded card on the way. An unknown national code yields an empty
// set, not an error.
func (s *cardService) GetCardsByNationalCode(nationalCode string) ([]*domain.Card, error) {
	if cards, ok := s.cache.CardsByNationalCode(nationalCode); ok {
		return cards, nil
	}

	person, err := s.personRepo.FindByNationalCode(nationalCode)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return []*domain.Card{}, nil
	}

	accounts, err := s.accountRepo.FindAllByOwner(person)
	if err != nil {
		return nil, err
	}

	var cards []*domain.Card
	for i := range accounts {
		accountCards, err := s.cardRepo.FindAllByAccount(&accounts[i])
		if err != nil {
			return nil, err
		}
		for j := range accountCards {
			card := &accountCards[j]
			key := cache.ConstraintKey(nationalCode, card.CardType, card.Issuer.IssuerCode)
			s.cache.IndexCard(card, nationalCode, key)
			cards = append(cards, card)
		}
	}

	log.Printf("synced %d card(s) from db to cache for %s", len(cards), nationalCode)
	return cards, nil
}

func validateCard(card *domain.Card) error {
	if card == nil {
		return &ValidationError{Msg: "card must not be nil"}
	}
	if card.Account == nil {
		return &ValidationError{Msg: "card account must not be nil"}
	}
	if card.Account.Owner == nil {
		return &ValidationError{Msg: "account owner must not be nil"}
	}
	if card.Issuer == nil {
		return &ValidationError{Msg: "card issuer must not be nil"}
	}
	return nil
}

// SaveCard persists a card and indexes it, enforcing one card per
// (person, card type, issuer). The constraint index claim happens before
// the database write and is rolled back if that write fails, so a store
// failure leaves no cache trace and two concurrent saves for the same
// triple cannot both pass the check.
func (s *cardService) SaveCard(card *domain.Card) (*domain.Card, error) {
	if err := validateCard(card); err != nil {
		return nil, err
	}

	nationalCode := card.Account.Owner.NationalCode
	key := cache.ConstraintKey(nationalCode, card.CardType, card.Issuer.IssuerCode)

	if !s.cache.PutConstraintIfAbsent(key, card) {
		return nil, &ConflictError{
			NationalCode: nationalCode,
			CardType:     card.CardType,
			IssuerName:   card.Issuer.Name,
		}
	}

	saved, err := s.cardRepo.Save(card)
	if err != nil {
		s.cache.DeleteConstraint(key)
		return nil, err
	}

	s.cache.IndexCard(saved, nationalCode, key)
	log.Printf("card synced: %s for person %s", saved.CardNumber, nationalCode)

	s.publishCardIssued(saved, nationalCode)
	return saved, nil
}

// CreateCard builds a card from an API request and runs it through
// SaveCard. Unknown account or issuer fails with ErrNotFound; a card
// number already held by the owner fails with ErrDuplicateCard.
func (s *cardService) CreateCard(input dto.CreateCardRequest) (*domain.Card, error) {
	cardType, err := domain.ParseCardType(input.CardType)
	if err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	account, err := s.accountRepo.FindByAccountNumber(input.AccountNumber)
	if err != nil {
		return nil, err
	}
	if account == nil || account.Owner == nil {
		return nil, fmt.Errorf("account %s: %w", input.AccountNumber, ErrNotFound)
	}

	ownerCode := account.Owner.NationalCode
	existing, err := s.GetCardsByNationalCode(ownerCode)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if c.CardNumber == input.CardNumber {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCard, input.CardNumber)
		}
	}

	issuer, err := s.issuerRepo.FindByIssuerCode(input.IssuerCode)
	if err != nil {
		return nil, err
	}
	if issuer == nil {
		return nil, fmt.Errorf("issuer %s: %w", input.IssuerCode, ErrNotFound)
	}

	card := &domain.Card{
		CardNumber:      input.CardNumber,
		CardType:        cardType,
		Active:          true,
		ExpirationMonth: input.ExpirationMonth,
		ExpirationYear:  input.ExpirationYear,
		AccountID:       account.ID,
		Account:         account,
		IssuerID:        issuer.ID,
		Issuer:          issuer,
	}

	return s.SaveCard(card)
}

// ClearAll empties the cache. The database is untouched; every index is
// re-derivable from it on the next read.
func (s *cardService) ClearAll() {
	s.cache.Clear()
	log.Println("cache cleared")
}

// ClearAllIncludingDatabase wipes the database and then the cache.
// Children go first: cards, accounts, issuers, persons.
func (s *cardService) ClearAllIncludingDatabase() error {
	log.Println("clearing all data (cache + database)...")

	if err := s.cardRepo.DeleteAll(); err != nil {
		return err
	}
	if err := s.accountRepo.DeleteAll(); err != nil {
		return err
	}
	if err := s.issuerRepo.DeleteAll(); err != nil {
		return err
	}
	if err := s.personRepo.DeleteAll(); err != nil {
		return err
	}

	s.cache.Clear()
	log.Println("all data cleared (cache + database)")
	return nil
}

func (s *cardService) Statistics() map[string]int {
	return s.cache.Statistics()
}

func (s *cardService) publishCardIssued(card *domain.Card, nationalCode string) {
	if s.producer == nil {
		return
	}

	event := dto.CardIssuedEvent{
		EventID:      uuid.NewString(),
		CardNumber:   card.CardNumber,
		CardType:     string(card.CardType),
		NationalCode: nationalCode,
		IssuerCode:   card.Issuer.IssuerCode,
		IssuedAt:     time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("marshal card issued event error: %v", err)
		return
	}

	if err := s.producer.PublishMessage([]byte(card.CardNumber), payload); err != nil {
		log.Printf("publish card issued event error: %v", err)
	}
}
