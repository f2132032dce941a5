package itemencryptor

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/absfs/absfs"
	"github.com/google/uuid"
)

// KeyStore persists EncryptionKey blobs under caller-chosen tags. It is
// the external collaborator backing OS keychains or any other key-value
// byte store; the core hands it the opaque RawData form of a key and
// expects the same shape back.
type KeyStore interface {
	// Get returns the key stored under tag, or ErrKeyNotFound.
	Get(tag string) (EncryptionKey, error)

	// Put stores the key under tag, replacing any previous key.
	Put(tag string, key EncryptionKey) error

	// Delete removes the key stored under tag. Deleting a tag that holds
	// no key is not an error.
	Delete(tag string) error
}

// FileKeyStore implements KeyStore on top of any absfs.FileSystem,
// storing one key blob per file. Tags are encoded into filenames, so
// any string is a valid tag.
type FileKeyStore struct {
	fs  absfs.FileSystem
	dir string
}

// NewFileKeyStore creates a key store rooted at dir on the given
// filesystem, creating dir if needed.
func NewFileKeyStore(fs absfs.FileSystem, dir string) (*FileKeyStore, error) {
	if fs == nil {
		return nil, fmt.Errorf("filesystem cannot be nil")
	}
	if err := fs.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create key store directory: %w", err)
	}
	return &FileKeyStore{fs: fs, dir: dir}, nil
}

// keyPath maps a tag to its file path. Tags are base64url-encoded so
// separators and other unsafe characters cannot escape the store
// directory.
func (s *FileKeyStore) keyPath(tag string) string {
	name := base64.RawURLEncoding.EncodeToString([]byte(tag))
	return path.Join(s.dir, name+".key")
}

// Get loads and parses the key stored under tag.
func (s *FileKeyStore) Get(tag string) (EncryptionKey, error) {
	f, err := s.fs.OpenFile(s.keyPath(tag), os.O_RDONLY, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return EncryptionKey{}, ErrKeyNotFound
		}
		return EncryptionKey{}, fmt.Errorf("failed to open key file: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return EncryptionKey{}, fmt.Errorf("failed to read key file: %w", err)
	}
	key, err := ParseEncryptionKey(raw)
	if err != nil {
		return EncryptionKey{}, err
	}
	key.Context = tag
	return key, nil
}

// Put writes the key blob atomically: the bytes land in a uniquely
// named temp file first, then a rename swaps it into place so a crashed
// write can never leave a truncated key behind.
func (s *FileKeyStore) Put(tag string, key EncryptionKey) error {
	if err := validateKey(key); err != nil {
		return err
	}

	final := s.keyPath(tag)
	tmp := final + "." + uuid.NewString() + ".tmp"

	f, err := s.fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create key file: %w", err)
	}
	if _, err := f.Write(key.RawData()); err != nil {
		f.Close()
		s.fs.Remove(tmp)
		return fmt.Errorf("failed to write key file: %w", err)
	}
	if err := f.Close(); err != nil {
		s.fs.Remove(tmp)
		return fmt.Errorf("failed to close key file: %w", err)
	}
	if err := s.fs.Rename(tmp, final); err != nil {
		s.fs.Remove(tmp)
		return fmt.Errorf("failed to store key: %w", err)
	}
	return nil
}

// Delete removes the key stored under tag, if any.
func (s *FileKeyStore) Delete(tag string) error {
	if err := s.fs.Remove(s.keyPath(tag)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}
