// Package cache holds the in-process lookup indices that mirror the
// durable store. The store is the source of truth; every index here can
// be re-derived from it. The constraint index is the exception: it exists
// only in memory and enforces "one card per (person, card type, issuer)",
// which the relational schema does not express.
package cache

import (
	"fmt"
	"sync"

	"github.com/iscsolutions/card_service/internal/domain"
)

type Store struct {
	mu sync.RWMutex

	persons  map[string]*domain.Person
	issuers  map[string]*domain.Issuer
	accounts map[string]*domain.Account
	cards    map[string]*domain.Card

	// national code -> cards keyed by card number
	cardsByNationalCode map[string]map[string]*domain.Card

	// composite uniqueness: nationalCode_cardType_issuerCode -> card
	constraints map[string]*domain.Card
}

func NewStore() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.persons = make(map[string]*domain.Person)
	s.issuers = make(map[string]*domain.Issuer)
	s.accounts = make(map[string]*domain.Account)
	s.cards = make(map[string]*domain.Card)
	s.cardsByNationalCode = make(map[string]map[string]*domain.Card)
	s.constraints = make(map[string]*domain.Card)
}

// ConstraintKey builds the composite-uniqueness key for a card.
func ConstraintKey(nationalCode string, cardType domain.CardType, issuerCode string) string {
	return fmt.Sprintf("%s_%s_%s", nationalCode, cardType, issuerCode)
}

func (s *Store) PutPerson(person *domain.Person) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persons[person.NationalCode] = person
}

func (s *Store) Person(nationalCode string) (*domain.Person, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.persons[nationalCode]
	return p, ok
}

func (s *Store) PutIssuer(issuer *domain.Issuer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issuers[issuer.IssuerCode] = issuer
}

func (s *Store) Issuer(issuerCode string) (*domain.Issuer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.issuers[issuerCode]
	return i, ok
}

func (s *Store) PutAccount(account *domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.AccountNumber] = account
}

func (s *Store) Account(accountNumber string) (*domain.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[accountNumber]
	return a, ok
}

func (s *Store) Card(cardNumber string) (*domain.Card, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cards[cardNumber]
	return c, ok
}

// PutConstraintIfAbsent atomically claims the composite key for card.
// It reports false when the key is already held. This is the
// serialization point for concurrent card creation: the check and the
// insert happen under one lock, so only one caller can claim a key.
func (s *Store) PutConstraintIfAbsent(key string, card *domain.Card) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.constraints[key]; exists {
		return false
	}
	s.constraints[key] = card
	return true
}

func (s *Store) HasConstraint(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.constraints[key]
	return ok
}

// DeleteConstraint backs out a tentative claim after a failed store write.
func (s *Store) DeleteConstraint(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.constraints, key)
}

// IndexCard records a persisted card in all three card indices.
func (s *Store) IndexCard(card *domain.Card, nationalCode, constraintKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards[card.CardNumber] = card
	set, ok := s.cardsByNationalCode[nationalCode]
	if !ok {
		set = make(map[string]*domain.Card)
		s.cardsByNationalCode[nationalCode] = set
	}
	set[card.CardNumber] = card
	s.constraints[constraintKey] = card
}

// EnsureCardSet creates an empty card set for a person if none exists.
func (s *Store) EnsureCardSet(nationalCode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cardsByNationalCode[nationalCode]; !ok {
		s.cardsByNationalCode[nationalCode] = make(map[string]*domain.Card)
	}
}

// CardsByNationalCode returns a copy of the cached card set for a person.
// ok is false when the set is missing or empty, which callers treat as a
// cache miss.
func (s *Store) CardsByNationalCode(nationalCode string) ([]*domain.Card, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.cardsByNationalCode[nationalCode]
	if !ok || len(set) == 0 {
		return nil, false
	}
	cards := make([]*domain.Card, 0, len(set))
	for _, c := range set {
		cards = append(cards, c)
	}
	return cards, true
}

// Clear empties every index. The durable store is untouched.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// Statistics reports current index sizes.
func (s *Store) Statistics() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]int{
		"persons":             len(s.persons),
		"issuers":             len(s.issuers),
		"accounts":            len(s.accounts),
		"cards":               len(s.cards),
		"nationalCodeEntries": len(s.cardsByNationalCode),
	}
}
