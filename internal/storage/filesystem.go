package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// FSStore is an ObjectStore over a local uploads directory. Access URLs
// are issued under a public base URL and carry an expiry plus an
// HMAC-SHA256 signature over the object path and expiry, so the download
// handler can authorize requests without any per-request state.
type FSStore struct {
	root    string
	baseURL string
	secret  []byte
	now     func() time.Time
}

// NewFSStore creates a filesystem-backed object store rooted at root.
func NewFSStore(root, baseURL, secret string) *FSStore {
	return &FSStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  []byte(secret),
		now:     time.Now,
	}
}

// List returns the object paths directly under prefix. A prefix that does
// not exist on disk yields an empty listing.
func (s *FSStore) List(_ context.Context, prefix string) ([]string, error) {
	dir, err := s.resolve(prefix)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list objects under %s: %w", prefix, err)
	}

	objects := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		objects = append(objects, path.Join(prefix, entry.Name()))
	}
	return objects, nil
}

// SignedURL returns a time-limited URL for the object at objectPath.
func (s *FSStore) SignedURL(objectPath string, ttl time.Duration) (string, error) {
	file, err := s.resolve(objectPath)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(file)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrObjectNotFound
		}
		return "", fmt.Errorf("failed to stat object %s: %w", objectPath, err)
	}
	if info.IsDir() {
		return "", ErrObjectNotFound
	}

	expires := s.now().Add(ttl).Unix()
	sig := s.sign(objectPath, expires)

	return fmt.Sprintf("%s/%s?exp=%d&sig=%s",
		s.baseURL, escapePath(objectPath), expires, sig), nil
}

// Verify checks a signature produced by SignedURL. It returns the absolute
// filesystem path of the object when the signature matches and has not
// expired.
func (s *FSStore) Verify(objectPath string, expires int64, sig string) (string, error) {
	if expires < s.now().Unix() {
		return "", ErrObjectNotFound
	}
	expected := s.sign(objectPath, expires)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return "", ErrObjectNotFound
	}

	file, err := s.resolve(objectPath)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(file); err != nil {
		return "", ErrObjectNotFound
	}
	return file, nil
}

// sign computes the hex HMAC-SHA256 over the object path and expiry.
func (s *FSStore) sign(objectPath string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(objectPath))
	mac.Write([]byte("\n"))
	mac.Write([]byte(strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

// resolve maps an object path to an absolute filesystem path, rejecting
// anything that would escape the uploads root.
func (s *FSStore) resolve(objectPath string) (string, error) {
	clean := path.Clean("/" + objectPath)
	if strings.Contains(clean, "..") {
		return "", fs.ErrInvalid
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

// escapePath escapes each segment of an object path for use in a URL.
func escapePath(objectPath string) string {
	segments := strings.Split(objectPath, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}
