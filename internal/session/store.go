package session

import "fmt"

// NewStore picks a backend by name. "keyring" is the default for
// interactive use, "file" for headless environments.
func NewStore(backend, filePath string) (Store, error) {
	switch backend {
	case "keyring":
		return NewKeyringStore(), nil
	case "file":
		return NewFileStore(filePath)
	default:
		return nil, fmt.Errorf("unknown session backend: %s", backend)
	}
}
