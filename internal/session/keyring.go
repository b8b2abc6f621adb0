package session

// keyring.go stores the session as a single JSON blob in the OS
// keyring. One service/key pair replaces the three incompatible
// localStorage layouts the old frontend grew per role.

import (
	"encoding/json"
	"errors"

	"github.com/zalando/go-keyring"
)

const (
	serviceName = "agriport-client"
	sessionKey  = "session"
)

type KeyringStore struct{}

func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

func (k *KeyringStore) Save(s Session) error {
	if s.Token == "" || !s.UserType.Valid() {
		return ErrInvalidSession
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return keyring.Set(serviceName, sessionKey, string(data))
}

func (k *KeyringStore) Read() (*Session, error) {
	value, err := keyring.Get(serviceName, sessionKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var s Session
	if err := json.Unmarshal([]byte(value), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (k *KeyringStore) Clear() error {
	err := keyring.Delete(serviceName, sessionKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

func (k *KeyringStore) IsActive() bool {
	s, err := k.Read()
	return err == nil && s != nil && s.Token != ""
}
