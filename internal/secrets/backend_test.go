package secrets

import (
	"bytes"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/semmy-space/credstore/internal/credential"
	"github.com/semmy-space/credstore/internal/errors"
)

type backendFactory func(t *testing.T) Backend

func backendFactories() map[string]backendFactory {
	return map[string]backendFactory{
		"memory": func(t *testing.T) Backend {
			return NewMemoryBackend()
		},
		"keyring": func(t *testing.T) Backend {
			return newKeyringBackendFromRing(keyring.NewArrayKeyring(nil), "array")
		},
		"system": func(t *testing.T) Backend {
			gokeyring.MockInit()
			return NewSystemBackend("com.example.app")
		},
		"file": func(t *testing.T) Backend {
			b, err := NewFileBackend("com.example.app", Options{
				FileDir:      t.TempDir(),
				FilePassword: keyring.FixedStringPrompt("correct horse"),
			})
			require.NoError(t, err)
			return b
		},
	}
}

func mustKey(t *testing.T, account string, kind credential.Kind) credential.Key {
	t.Helper()
	key, err := credential.MakeKey("com.example.app", account, kind)
	require.NoError(t, err)
	return key
}

func mustPassword(t *testing.T, text string) credential.Value {
	t.Helper()
	v, err := credential.Password(text)
	require.NoError(t, err)
	return v
}

func TestBackendContract(t *testing.T) {
	for name, factory := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			t.Run("password round trip", func(t *testing.T) {
				b := factory(t)
				key := mustKey(t, "alice", credential.KindPassword)

				require.NoError(t, b.Put(key, mustPassword(t, "p@ssw0rd! 密码")))
				got, err := b.Get(key)
				require.NoError(t, err)
				text, ok := got.Text()
				require.True(t, ok)
				assert.Equal(t, "p@ssw0rd! 密码", text)
			})

			t.Run("secret round trip keeps every byte", func(t *testing.T) {
				b := factory(t)
				key := mustKey(t, "bob", credential.KindSecret)
				payloads := [][]byte{
					{0x01, 0x02, 0xFF},
					{0x00, 0xFF, 0x80, 0x7F, 0xC0, 0x3F},
					{},
					bytes.Repeat([]byte{0xAB}, 2048),
				}
				for _, p := range payloads {
					require.NoError(t, b.Put(key, credential.Secret(p)))
					got, err := b.Get(key)
					require.NoError(t, err)
					data, ok := got.Bytes()
					require.True(t, ok)
					assert.Equal(t, p, data)
				}
			})

			t.Run("put overwrites", func(t *testing.T) {
				b := factory(t)
				key := mustKey(t, "carol", credential.KindPassword)
				require.NoError(t, b.Put(key, mustPassword(t, "one")))
				require.NoError(t, b.Put(key, mustPassword(t, "two")))
				got, err := b.Get(key)
				require.NoError(t, err)
				text, _ := got.Text()
				assert.Equal(t, "two", text)
			})

			t.Run("missing item", func(t *testing.T) {
				b := factory(t)
				key := mustKey(t, "nobody", credential.KindPassword)

				_, err := b.Get(key)
				require.Error(t, err)
				assert.Equal(t, errors.CodeNotFound, errors.Normalize("get", err, b.Classify).Code)

				err = b.Delete(key)
				require.Error(t, err)
				assert.Equal(t, errors.CodeNotFound, errors.Normalize("delete", err, b.Classify).Code)

				ok, err := b.Exists(key)
				require.NoError(t, err)
				assert.False(t, ok)
			})

			t.Run("delete then exists", func(t *testing.T) {
				b := factory(t)
				key := mustKey(t, "dave", credential.KindSecret)
				require.NoError(t, b.Put(key, credential.Secret([]byte{1})))

				ok, err := b.Exists(key)
				require.NoError(t, err)
				assert.True(t, ok)

				require.NoError(t, b.Delete(key))
				ok, err = b.Exists(key)
				require.NoError(t, err)
				assert.False(t, ok)
			})

			t.Run("kinds are separate namespaces", func(t *testing.T) {
				b := factory(t)
				pwKey := mustKey(t, "erin", credential.KindPassword)
				secKey := mustKey(t, "erin", credential.KindSecret)

				require.NoError(t, b.Put(pwKey, mustPassword(t, "p1")))
				ok, err := b.Exists(secKey)
				require.NoError(t, err)
				assert.False(t, ok)

				require.NoError(t, b.Put(secKey, credential.Secret([]byte{9})))
				require.NoError(t, b.Delete(pwKey))
				ok, err = b.Exists(secKey)
				require.NoError(t, err)
				assert.True(t, ok)
			})

			t.Run("mismatched value kind is rejected", func(t *testing.T) {
				b := factory(t)
				key := mustKey(t, "frank", credential.KindPassword)
				err := b.Put(key, credential.Secret([]byte{1, 2}))
				require.Error(t, err)
				assert.Equal(t, errors.CodeInvalidArgument, errors.CodeOf(err))
			})

			t.Run("name is set", func(t *testing.T) {
				assert.NotEmpty(t, factory(t).Name())
			})
		})
	}
}

func TestKeyringBackendStoresUnderStorageName(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	b := newKeyringBackendFromRing(ring, "array")
	key := mustKey(t, "alice", credential.KindSecret)

	require.NoError(t, b.Put(key, credential.Secret([]byte{0xFF})))

	item, err := ring.Get("com.example.app/alice/secret")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF}, item.Data)
	assert.Equal(t, "credstore secret", item.Description)
}

func TestKeyringBackendInvalidStoredPassword(t *testing.T) {
	ring := keyring.NewArrayKeyring([]keyring.Item{
		{Key: "com.example.app/alice/password", Data: []byte{0xC3, 0x28}},
	})
	b := newKeyringBackendFromRing(ring, "array")

	_, err := b.Get(mustKey(t, "alice", credential.KindPassword))
	require.Error(t, err)
	assert.Equal(t, errors.CodeEncoding, errors.CodeOf(err))
}

func TestSystemBackendEncodesSecretsAsBase64(t *testing.T) {
	gokeyring.MockInit()
	b := NewSystemBackend("com.example.app")
	key := mustKey(t, "bob", credential.KindSecret)

	require.NoError(t, b.Put(key, credential.Secret([]byte{0x01, 0x02, 0xFF})))

	raw, err := gokeyring.Get("com.example.app", "com.example.app/bob/secret")
	require.NoError(t, err)
	assert.Equal(t, "AQL/", raw)
}

func TestSystemBackendCorruptSecret(t *testing.T) {
	gokeyring.MockInit()
	require.NoError(t, gokeyring.Set("com.example.app", "com.example.app/bob/secret", "not base64!"))

	b := NewSystemBackend("com.example.app")
	_, err := b.Get(mustKey(t, "bob", credential.KindSecret))
	require.Error(t, err)
	assert.Equal(t, errors.CodeEncoding, errors.Normalize("get_secret", err, b.Classify).Code)
}

func TestSystemBackendUnavailable(t *testing.T) {
	gokeyring.MockInitWithError(gokeyring.ErrUnsupportedPlatform)
	defer gokeyring.MockInit()

	b := NewSystemBackend("com.example.app")
	key := mustKey(t, "alice", credential.KindPassword)

	_, err := b.Exists(key)
	require.Error(t, err)
	assert.Equal(t, errors.CodeBackendUnavailable, errors.Normalize("has_password", err, b.Classify).Code)
}

func TestFileBackendLocation(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend("com.example.app", Options{
		FileDir:      dir,
		FilePassword: keyring.FixedStringPrompt("pw"),
	})
	require.NoError(t, err)
	assert.Equal(t, dir, b.Dir())
	assert.Equal(t, "file", b.Name())

	// a second handle on the same directory sees the first one's writes
	key := mustKey(t, "alice", credential.KindPassword)
	require.NoError(t, b.Put(key, mustPassword(t, "shared")))

	other, err := NewFileBackend("com.example.app", Options{
		FileDir:      dir,
		FilePassword: keyring.FixedStringPrompt("pw"),
	})
	require.NoError(t, err)
	got, err := other.Get(key)
	require.NoError(t, err)
	text, _ := got.Text()
	assert.Equal(t, "shared", text)
}
