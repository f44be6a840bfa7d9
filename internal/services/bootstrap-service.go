package services

import (
	"bufio"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/iscsolutions/card_service/internal/cache"
	"github.com/iscsolutions/card_service/internal/domain"
	"github.com/iscsolutions/card_service/internal/repository"
)

type BootstrapState string

const (
	BootstrapNotStarted BootstrapState = "NOT_STARTED"
	BootstrapLoading    BootstrapState = "LOADING"
	BootstrapLoaded     BootstrapState = "LOADED"
	BootstrapFailed     BootstrapState = "FAILED"
)

type LoadResult struct {
	Persons  int
	Issuers  int
	Accounts int
	Cards    int
	Skipped  int
}

// BootstrapService populates the database and the cache from a flat
// record file before the service accepts traffic. Processing is strictly
// sequential and order dependent: an account line must follow its person
// line, a card line its account and issuer lines, because each handler
// resolves references through the cache. A record whose dependencies are
// not yet cached is dropped with a diagnostic and never retried.
type BootstrapService struct {
	cache       *cache.Store
	personRepo  repository.PersonRepository
	issuerRepo  repository.IssuerRepository
	accountRepo repository.AccountRepository
	cardRepo    repository.CardRepository

	mu    sync.RWMutex
	state BootstrapState
}

func NewBootstrapService(
	store *cache.Store,
	personRepo repository.PersonRepository,
	issuerRepo repository.IssuerRepository,
	accountRepo repository.AccountRepository,
	cardRepo repository.CardRepository,
) *BootstrapService {
	return &BootstrapService{
		cache:       store,
		personRepo:  personRepo,
		issuerRepo:  issuerRepo,
		accountRepo: accountRepo,
		cardRepo:    cardRepo,
		state:       BootstrapNotStarted,
	}
}

func (b *BootstrapService) State() BootstrapState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

func (b *BootstrapService) setState(state BootstrapState) {
	b.mu.Lock()
	b.state = state
	b.mu.Unlock()
}

// LoadFile loads the bootstrap file at path. A file that cannot be
// opened fails the loader with a SourceReadError; malformed records do
// not.
func (b *BootstrapService) LoadFile(path string) (*LoadResult, error) {
	b.setState(BootstrapLoading)

	f, err := os.Open(path)
	if err != nil {
		b.setState(BootstrapFailed)
		return nil, &SourceReadError{Path: path, Err: err}
	}
	defer f.Close()

	result, err := b.load(f)
	if err != nil {
		b.setState(BootstrapFailed)
		return nil, &SourceReadError{Path: path, Err: err}
	}

	b.setState(BootstrapLoaded)
	return result, nil
}

// Load reads bootstrap records from r. Used directly by tests; LoadFile
// is the production entry point.
func (b *BootstrapService) Load(r io.Reader) (*LoadResult, error) {
	b.setState(BootstrapLoading)

	result, err := b.load(r)
	if err != nil {
		b.setState(BootstrapFailed)
		return nil, &SourceReadError{Path: "(reader)", Err: err}
	}

	b.setState(BootstrapLoaded)
	return result, nil
}

func (b *BootstrapService) load(r io.Reader) (*LoadResult, error) {
	result := &LoadResult{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "person="):
			b.processPerson(line[len("person="):], result)
		case strings.HasPrefix(lower, "issuer="):
			b.processIssuer(line[len("issuer="):], result)
		case strings.HasPrefix(lower, "account="):
			b.processAccount(line[len("account="):], result)
		case strings.HasPrefix(lower, "card="):
			b.processCard(line[len("card="):], result)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	log.Printf("bootstrap load done: %d person(s), %d issuer(s), %d account(s), %d card(s), %d skipped",
		result.Persons, result.Issuers, result.Accounts, result.Cards, result.Skipped)
	return result, nil
}

func (b *BootstrapService) processPerson(data string, result *LoadResult) {
	tokens := strings.Split(data, ",")
	if len(tokens) < 5 {
		log.Printf("invalid person record: %s", data)
		result.Skipped++
		return
	}

	firstName := strings.TrimSpace(tokens[0])
	lastName := strings.TrimSpace(tokens[1])
	nationalCode := strings.TrimSpace(tokens[2])
	phone := strings.TrimSpace(tokens[3])
	address := strings.TrimSpace(tokens[4])

	person, err := b.personRepo.FindByNationalCode(nationalCode)
	if err != nil {
		log.Printf("error processing person %s: %v", nationalCode, err)
		result.Skipped++
		return
	}
	if person == nil {
		person, err = b.personRepo.Save(&domain.Person{
			FirstName:    firstName,
			LastName:     lastName,
			NationalCode: nationalCode,
			Phone:        phone,
			Address:      address,
		})
		if err != nil {
			log.Printf("error saving person %s: %v", nationalCode, err)
			result.Skipped++
			return
		}
	}

	b.cache.PutPerson(person)
	b.cache.EnsureCardSet(nationalCode)
	result.Persons++
}

func (b *BootstrapService) processIssuer(data string, result *LoadResult) {
	// name keeps everything after the first comma
	tokens := strings.SplitN(data, ",", 2)
	if len(tokens) < 2 {
		log.Printf("invalid issuer record: %s", data)
		result.Skipped++
		return
	}

	issuerCode := strings.TrimSpace(tokens[0])
	name := strings.TrimSpace(tokens[1])

	issuer, err := b.issuerRepo.FindByIssuerCode(issuerCode)
	if err != nil {
		log.Printf("error processing issuer %s: %v", issuerCode, err)
		result.Skipped++
		return
	}
	if issuer == nil {
		issuer, err = b.issuerRepo.Save(&domain.Issuer{
			IssuerCode: issuerCode,
			Name:       name,
		})
		if err != nil {
			log.Printf("error saving issuer %s: %v", issuerCode, err)
			result.Skipped++
			return
		}
	}

	b.cache.PutIssuer(issuer)
	result.Issuers++
}

func (b *BootstrapService) processAccount(data string, result *LoadResult) {
	tokens := strings.Split(data, ",")
	if len(tokens) < 3 {
		log.Printf("invalid account record: %s", data)
		result.Skipped++
		return
	}

	accountNumber := strings.TrimSpace(tokens[0])
	accountType, err := domain.ParseAccountType(tokens[1])
	if err != nil {
		log.Printf("invalid account record %s: %v", data, err)
		result.Skipped++
		return
	}
	nationalCode := strings.TrimSpace(tokens[2])

	// owner must appear earlier in the file
	if _, ok := b.cache.Person(nationalCode); !ok {
		log.Printf("account %s dropped: person %s not in cache", accountNumber, nationalCode)
		result.Skipped++
		return
	}

	existing, err := b.accountRepo.FindByAccountNumber(accountNumber)
	if err != nil {
		log.Printf("error processing account %s: %v", accountNumber, err)
		result.Skipped++
		return
	}
	if existing != nil {
		b.cache.PutAccount(existing)
		result.Accounts++
		return
	}

	owner, err := b.personRepo.FindByNationalCode(nationalCode)
	if err != nil || owner == nil {
		log.Printf("account %s dropped: person %s not in database", accountNumber, nationalCode)
		result.Skipped++
		return
	}

	account, err := b.accountRepo.Save(&domain.Account{
		AccountNumber: accountNumber,
		AccountType:   accountType,
		PersonID:      owner.ID,
		Owner:         owner,
	})
	if err != nil {
		log.Printf("error saving account %s: %v", accountNumber, err)
		result.Skipped++
		return
	}

	b.cache.PutAccount(account)
	result.Accounts++
}

func (b *BootstrapService) processCard(data string, result *LoadResult) {
	tokens := strings.Split(data, ",")
	if len(tokens) < 7 {
		log.Printf("invalid card record: %s", data)
		result.Skipped++
		return
	}

	cardNumber := strings.TrimSpace(tokens[0])
	cardType, err := domain.ParseCardType(tokens[1])
	if err != nil {
		log.Printf("invalid card record %s: %v", data, err)
		result.Skipped++
		return
	}
	active := strings.EqualFold(strings.TrimSpace(tokens[2]), "true")
	expirationMonth := strings.TrimSpace(tokens[3])
	expirationYear := strings.TrimSpace(tokens[4])
	issuerCode := strings.TrimSpace(tokens[5])
	accountNumber := strings.TrimSpace(tokens[6])

	// account and issuer must appear earlier in the file
	cachedAccount, ok := b.cache.Account(accountNumber)
	if !ok || cachedAccount.Owner == nil {
		log.Printf("card %s dropped: account %s not in cache", cardNumber, accountNumber)
		result.Skipped++
		return
	}
	cachedIssuer, ok := b.cache.Issuer(issuerCode)
	if !ok {
		log.Printf("card %s dropped: issuer %s not in cache", cardNumber, issuerCode)
		result.Skipped++
		return
	}

	nationalCode := cachedAccount.Owner.NationalCode
	key := cache.ConstraintKey(nationalCode, cardType, issuerCode)

	// duplicate triple in bootstrap data is accepted silently, unlike a
	// runtime save
	if b.cache.HasConstraint(key) {
		log.Printf("card %s dropped: constraint %s already held", cardNumber, key)
		return
	}

	existing, err := b.cardRepo.FindByCardNumber(cardNumber)
	if err != nil {
		log.Printf("error processing card %s: %v", cardNumber, err)
		result.Skipped++
		return
	}
	if existing != nil {
		b.cache.IndexCard(existing, nationalCode, key)
		result.Cards++
		return
	}

	card, err := b.cardRepo.Save(&domain.Card{
		CardNumber:      cardNumber,
		CardType:        cardType,
		Active:          active,
		ExpirationMonth: expirationMonth,
		ExpirationYear:  expirationYear,
		AccountID:       cachedAccount.ID,
		Account:         cachedAccount,
		IssuerID:        cachedIssuer.ID,
		Issuer:          cachedIssuer,
	})
	if err != nil {
		log.Printf("error saving card %s: %v", cardNumber, err)
		result.Skipped++
		return
	}

	b.cache.IndexCard(card, nationalCode, key)
	result.Cards++
}
