package monitoring

import (
	"log"
	"runtime"
	"time"

	"github.com/iscsolutions/card_service/internal/cache"
	"github.com/iscsolutions/card_service/internal/repository"
)

// StatsLogger periodically logs cache index sizes, database entity
// counts and process memory. Read-only observer, no side effects on the
// cache or the store.
type StatsLogger struct {
	cache       *cache.Store
	personRepo  repository.PersonRepository
	issuerRepo  repository.IssuerRepository
	accountRepo repository.AccountRepository
	cardRepo    repository.CardRepository

	interval time.Duration
	done     chan struct{}
}

func NewStatsLogger(
	store *cache.Store,
	personRepo repository.PersonRepository,
	issuerRepo repository.IssuerRepository,
	accountRepo repository.AccountRepository,
	cardRepo repository.CardRepository,
	interval time.Duration,
) *StatsLogger {
	return &StatsLogger{
		cache:       store,
		personRepo:  personRepo,
		issuerRepo:  issuerRepo,
		accountRepo: accountRepo,
		cardRepo:    cardRepo,
		interval:    interval,
		done:        make(chan struct{}),
	}
}

func (s *StatsLogger) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.report()
			case <-s.done:
				return
			}
		}
	}()
}

func (s *StatsLogger) Stop() {
	close(s.done)
}

func (s *StatsLogger) report() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	log.Printf("memory: alloc=%.2fMB sys=%.2fMB gc=%d",
		float64(mem.Alloc)/(1024*1024), float64(mem.Sys)/(1024*1024), mem.NumGC)

	stats := s.cache.Statistics()
	log.Printf("cache: persons=%d issuers=%d accounts=%d cards=%d nationalCodeEntries=%d",
		stats["persons"], stats["issuers"], stats["accounts"], stats["cards"],
		stats["nationalCodeEntries"])

	persons, err := s.personRepo.Count()
	if err != nil {
		log.Printf("stats: count persons error: %v", err)
		return
	}
	issuers, err := s.issuerRepo.Count()
	if err != nil {
		log.Printf("stats: count issuers error: %v", err)
		return
	}
	accounts, err := s.accountRepo.Count()
	if err != nil {
		log.Printf("stats: count accounts error: %v", err)
		return
	}
	cards, err := s.cardRepo.Count()
	if err != nil {
		log.Printf("stats: count cards error: %v", err)
		return
	}
	log.Printf("database: persons=%d issuers=%d accounts=%d cards=%d",
		persons, issuers, accounts, cards)
}
