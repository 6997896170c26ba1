package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory CredentialStore for tests
type memoryStore struct {
	accounts map[string]*Account
	readOnly bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{accounts: make(map[string]*Account)}
}

func (m *memoryStore) Store(account *Account) error {
	if m.readOnly {
		return ErrStoreUnavailable
	}
	copy := *account
	m.accounts[account.Username] = &copy
	return nil
}

func (m *memoryStore) Retrieve(username string) (*Account, error) {
	if account, ok := m.accounts[username]; ok {
		return account, nil
	}
	return nil, ErrCredentialsNotFound
}

func (m *memoryStore) List() ([]*Account, error) {
	var out []*Account
	for _, a := range m.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (m *memoryStore) Delete(username string) error {
	if _, ok := m.accounts[username]; !ok {
		return ErrCredentialsNotFound
	}
	delete(m.accounts, username)
	return nil
}

func (m *memoryStore) Exists(username string) bool {
	_, ok := m.accounts[username]
	return ok
}

func validAccount(username string) *Account {
	return &Account{
		Username:  username,
		SessionID: "session-value-12345",
		CSRFToken: "csrf-value-67890",
	}
}

func TestManagerStoreAndRetrieve(t *testing.T) {
	store := newMemoryStore()
	m := NewManagerWithStores(store)

	require.NoError(t, m.Store(validAccount("alice")))

	got, err := m.Retrieve("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.False(t, got.LastModified.IsZero())
}

func TestManagerStoreValidation(t *testing.T) {
	m := NewManagerWithStores(newMemoryStore())

	assert.Error(t, m.Store(&Account{SessionID: "s", CSRFToken: "c"}))
	assert.Error(t, m.Store(&Account{Username: "u", CSRFToken: "c"}))
	assert.Error(t, m.Store(&Account{Username: "u", SessionID: "s"}))
}

func TestManagerFallsThroughStores(t *testing.T) {
	unavailable := newMemoryStore()
	unavailable.readOnly = true
	backing := newMemoryStore()
	m := NewManagerWithStores(unavailable, backing)

	require.NoError(t, m.Store(validAccount("bob")))
	assert.True(t, backing.Exists("bob"))

	got, err := m.Retrieve("bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username)
}

func TestManagerListPrefersNewest(t *testing.T) {
	older := newMemoryStore()
	newer := newMemoryStore()

	stale := validAccount("carol")
	stale.SessionID = "stale"
	stale.LastModified = time.Now().Add(-time.Hour)
	older.accounts["carol"] = stale

	fresh := validAccount("carol")
	fresh.SessionID = "fresh"
	fresh.LastModified = time.Now()
	newer.accounts["carol"] = fresh

	m := NewManagerWithStores(older, newer)
	accounts, err := m.List()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "fresh", accounts[0].SessionID)
}

func TestManagerDelete(t *testing.T) {
	store := newMemoryStore()
	m := NewManagerWithStores(store)

	require.NoError(t, m.Store(validAccount("dave")))
	require.NoError(t, m.Delete("dave"))
	assert.False(t, store.Exists("dave"))

	assert.Error(t, m.Delete("dave"))
}

func TestSanitizeAccount(t *testing.T) {
	account := &Account{
		Username:  "alice",
		SessionID: "1234567890abcdef",
		CSRFToken: "short",
	}

	masked := SanitizeAccount(account)
	assert.Equal(t, "alice", masked.Username)
	assert.Equal(t, "1234...cdef", masked.SessionID)
	assert.Equal(t, "********", masked.CSRFToken)

	// Original untouched.
	assert.Equal(t, "1234567890abcdef", account.SessionID)

	assert.Nil(t, SanitizeAccount(nil))
}

func TestEnvironmentStore(t *testing.T) {
	t.Setenv("IGSTATS_SESSION_ID", "env-session")
	t.Setenv("IGSTATS_CSRF_TOKEN", "env-csrf")

	store := NewEnvironmentStore()

	account, err := store.Retrieve("")
	require.NoError(t, err)
	assert.Equal(t, "default", account.Username)
	assert.Equal(t, "env-session", account.SessionID)

	assert.True(t, store.Exists(""))
	assert.ErrorIs(t, store.Store(validAccount("x")), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete("x"), ErrStoreUnavailable)
}

func TestEnvironmentStoreMissing(t *testing.T) {
	t.Setenv("IGSTATS_SESSION_ID", "")
	t.Setenv("IGSTATS_CSRF_TOKEN", "")

	store := NewEnvironmentStore()
	_, err := store.Retrieve("")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestEncryptedFileStoreRoundtrip(t *testing.T) {
	t.Setenv("IGSTATS_PASSPHRASE", "test-passphrase")
	path := filepath.Join(t.TempDir(), "credentials.enc")

	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	account := validAccount("erin")
	account.LastModified = time.Now()
	require.NoError(t, store.Store(account))

	// A fresh store instance with the same passphrase can decrypt.
	reopened, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	got, err := reopened.Retrieve("erin")
	require.NoError(t, err)
	assert.Equal(t, account.SessionID, got.SessionID)

	accounts, err := reopened.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestEncryptedFileStoreWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.enc")

	t.Setenv("IGSTATS_PASSPHRASE", "first")
	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(validAccount("frank")))

	t.Setenv("IGSTATS_PASSPHRASE", "second")
	other, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	_, err = other.Retrieve("frank")
	assert.Error(t, err)
}

func TestEncryptedFileStoreDeleteLastRemovesFile(t *testing.T) {
	t.Setenv("IGSTATS_PASSPHRASE", "test-passphrase")
	path := filepath.Join(t.TempDir(), "credentials.enc")

	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(validAccount("gina")))
	require.NoError(t, store.Delete("gina"))

	assert.False(t, store.Exists("gina"))
	_, err = store.Retrieve("gina")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestEncryptDecrypt(t *testing.T) {
	key := make([]byte, keySize)
	copy(key, "0123456789abcdef0123456789abcdef")

	plaintext := []byte("secret payload")
	sealed, err := encrypt(plaintext, key)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, sealed)

	opened, err := decrypt(sealed, key)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)

	// Tampered ciphertext fails authentication.
	sealed[len(sealed)-1] ^= 0xff
	_, err = decrypt(sealed, key)
	assert.Error(t, err)

	_, err = decrypt([]byte("short"), key)
	assert.Error(t, err)
}
