package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioData = `
# bootstrap fixture
person=Ali,Ahmadi,1234567890,09121234567,Tehran
issuer=627353,TejaratBank
account=1234567890,SAVINGS,1234567890
card=6273531234567890,CREDIT,true,12,1405,627353,1234567890
`

func newBootstrap(env *testEnv) *BootstrapService {
	return NewBootstrapService(env.store, env.personRepo, env.issuerRepo, env.accountRepo, env.cardRepo)
}

func TestBootstrapScenario(t *testing.T) {
	env := newTestEnv(t)
	boot := newBootstrap(env)
	assert.Equal(t, BootstrapNotStarted, boot.State())

	result, err := boot.Load(strings.NewReader(scenarioData))
	require.NoError(t, err)
	assert.Equal(t, BootstrapLoaded, boot.State())
	assert.Equal(t, 1, result.Persons)
	assert.Equal(t, 1, result.Issuers)
	assert.Equal(t, 1, result.Accounts)
	assert.Equal(t, 1, result.Cards)
	assert.Zero(t, result.Skipped)

	cards, err := env.svc.GetCardsByNationalCode("1234567890")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "6273531234567890", cards[0].CardNumber)
	assert.True(t, cards[0].Active)
}

func TestBootstrapIdempotent(t *testing.T) {
	env := newTestEnv(t)
	boot := newBootstrap(env)

	_, err := boot.Load(strings.NewReader(scenarioData))
	require.NoError(t, err)
	_, err = boot.Load(strings.NewReader(scenarioData))
	require.NoError(t, err)

	for _, count := range []func() (int64, error){
		env.personRepo.Count, env.issuerRepo.Count, env.accountRepo.Count, env.cardRepo.Count,
	} {
		n, err := count()
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	}
}

func TestBootstrapMalformedRecords(t *testing.T) {
	env := newTestEnv(t)
	boot := newBootstrap(env)

	data := `
person=Ali,Ahmadi,1234567890,09121234567,Tehran
issuer=627353,TejaratBank
account=1234567890,SAVINGS,1234567890
# too few card fields
card=6273531234567890,CREDIT,true,12
# unknown card type
card=6273531234567890,GIFT,true,12,1405,627353,1234567890
# unknown account type
account=5556667778,CHECKING,1234567890
# loader keeps going: this one is fine
card=6273531234567890,CREDIT,true,12,1405,627353,1234567890
`
	result, err := boot.Load(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, BootstrapLoaded, boot.State())
	assert.Equal(t, 1, result.Cards)
	assert.Equal(t, 3, result.Skipped)

	n, err := env.cardRepo.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestBootstrapOrderDependent(t *testing.T) {
	env := newTestEnv(t)
	boot := newBootstrap(env)

	// account before its person, card before its issuer: both dropped
	data := `
account=1234567890,SAVINGS,1234567890
person=Ali,Ahmadi,1234567890,09121234567,Tehran
card=6273531234567890,CREDIT,true,12,1405,627353,1234567890
issuer=627353,TejaratBank
`
	result, err := boot.Load(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Persons)
	assert.Equal(t, 1, result.Issuers)
	assert.Zero(t, result.Accounts)
	assert.Zero(t, result.Cards)
	assert.Equal(t, 2, result.Skipped)
}

func TestBootstrapDuplicateTripleDroppedSilently(t *testing.T) {
	env := newTestEnv(t)
	boot := newBootstrap(env)

	data := scenarioData + `
card=6273539999999999,CREDIT,true,01,1406,627353,1234567890
`
	result, err := boot.Load(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, BootstrapLoaded, boot.State())
	// the duplicate triple is accepted data, not a skip
	assert.Equal(t, 1, result.Cards)
	assert.Zero(t, result.Skipped)

	n, err := env.cardRepo.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestBootstrapCaseInsensitivePrefixes(t *testing.T) {
	env := newTestEnv(t)
	boot := newBootstrap(env)

	data := `
PERSON=Ali,Ahmadi,1234567890,09121234567,Tehran
Issuer=627353,TejaratBank
ACCOUNT=1234567890,SAVINGS,1234567890
Card=6273531234567890,credit,TRUE,12,1405,627353,1234567890
`
	result, err := boot.Load(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Cards)
	assert.Zero(t, result.Skipped)
}

func TestBootstrapMissingFile(t *testing.T) {
	env := newTestEnv(t)
	boot := newBootstrap(env)

	_, err := boot.LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Equal(t, BootstrapFailed, boot.State())

	var srcErr *SourceReadError
	require.ErrorAs(t, err, &srcErr)
	assert.Contains(t, srcErr.Path, "missing.txt")
}

func TestBootstrapFromFile(t *testing.T) {
	env := newTestEnv(t)
	boot := newBootstrap(env)

	path := filepath.Join(t.TempDir(), "initial-data.txt")
	require.NoError(t, os.WriteFile(path, []byte(scenarioData), 0o644))

	result, err := boot.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, BootstrapLoaded, boot.State())
	assert.Equal(t, 1, result.Cards)
}
