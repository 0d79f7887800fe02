package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/zenops/zen-ops-console/internal/models"
	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
)

// StorageKey is where the normalised session record lives.
const StorageKey = "zenops_user"

const defaultLegacyRole = string(models.RoleEmployee)

// Keys written by older builds, read once for migration and always removed on Clear.
var (
	legacyTokenKeys = []string{"vb_token", "access_token", "token"}
	legacyRoleKeys  = []string{"vb_role", "role"}
	legacyEmailKeys = []string{"vb_email", "email", "user_email"}
	legacyNameKeys  = []string{"vb_name", "full_name", "name"}
)

// LegacyKeys returns every legacy key in a stable order.
func LegacyKeys() []string {
	keys := make([]string, 0, 11)
	keys = append(keys, legacyTokenKeys...)
	keys = append(keys, legacyRoleKeys...)
	keys = append(keys, legacyEmailKeys...)
	keys = append(keys, legacyNameKeys...)
	return keys
}

// Store exposes the current user to every component that needs it.
type Store interface {
	Current(ctx context.Context) (*models.Session, bool)
	Set(ctx context.Context, s models.Session) error
	Clear(ctx context.Context) error
	Subscribe(fn func(*models.Session)) (cancel func())
}

// KV is the byte-level persistence a KVStore writes through.
// Get returns appErrors.ErrCacheMiss for absent keys.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// KVStore persists the session as one JSON record in a KV backend.
type KVStore struct {
	kv     KV
	logger *zap.Logger

	mu     sync.Mutex
	subs   map[int]func(*models.Session)
	nextID int
}

// NewKVStore wraps kv.
func NewKVStore(kv KV, logger *zap.Logger) *KVStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KVStore{kv: kv, logger: logger, subs: make(map[int]func(*models.Session))}
}

// Current returns the stored session, migrating legacy keys when the record is missing.
func (s *KVStore) Current(ctx context.Context) (*models.Session, bool) {
	raw, err := s.kv.Get(ctx, StorageKey)
	switch {
	case err == nil:
		if sess, ok := Normalize(raw); ok {
			return sess, true
		}
	case errors.Is(err, appErrors.ErrCacheMiss):
	default:
		s.logger.Warn("read session", zap.Error(err))
		return nil, false
	}
	return s.migrateLegacy(ctx)
}

// Set normalises and stores sess, then notifies subscribers.
func (s *KVStore) Set(ctx context.Context, sess models.Session) error {
	normalized := normalizeSession(sess)
	if !normalized.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "session requires an email or a token")
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, payload); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	s.notify(&normalized)
	return nil
}

// Clear removes the record and every legacy key, then notifies subscribers with nil.
func (s *KVStore) Clear(ctx context.Context) error {
	var firstErr error
	for _, key := range append([]string{StorageKey}, LegacyKeys()...) {
		if err := s.kv.Delete(ctx, key); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("delete %s: %w", key, err)
		}
	}
	s.notify(nil)
	return firstErr
}

// Subscribe registers fn for session changes.
func (s *KVStore) Subscribe(fn func(*models.Session)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *KVStore) notify(sess *models.Session) {
	s.mu.Lock()
	fns := make([]func(*models.Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		if sess == nil {
			fn(nil)
			continue
		}
		cp := *sess
		fn(&cp)
	}
}

func (s *KVStore) migrateLegacy(ctx context.Context) (*models.Session, bool) {
	token := s.firstNonEmpty(ctx, legacyTokenKeys)
	email := strings.ToLower(s.firstNonEmpty(ctx, legacyEmailKeys))
	if token == "" && email == "" {
		return nil, false
	}
	role := s.firstNonEmpty(ctx, legacyRoleKeys)
	if role == "" {
		role = defaultLegacyRole
	}
	migrated := normalizeSession(models.Session{
		Email: email,
		Token: token,
		Role:  role,
		Name:  s.firstNonEmpty(ctx, legacyNameKeys),
	})

	payload, err := json.Marshal(migrated)
	if err == nil {
		err = s.kv.Set(ctx, StorageKey, payload)
	}
	if err != nil {
		s.logger.Warn("persist migrated session", zap.Error(err))
	} else {
		s.logger.Info("migrated legacy session", zap.String("email", migrated.Email))
	}
	return &migrated, true
}

func (s *KVStore) firstNonEmpty(ctx context.Context, keys []string) string {
	for _, key := range keys {
		raw, err := s.kv.Get(ctx, key)
		if err != nil {
			continue
		}
		if v := strings.TrimSpace(string(raw)); v != "" {
			return strings.Trim(v, `"`)
		}
	}
	return ""
}

// Normalize parses a stored or backend-shaped user record. It accepts token or
// access_token and name or full_name; ok is false when neither email nor token is present.
func Normalize(raw []byte) (*models.Session, bool) {
	var rec map[string]json.RawMessage
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, false
	}
	sess := normalizeSession(models.Session{
		ID:          intField(rec, "id"),
		Email:       stringField(rec, "email"),
		Role:        stringField(rec, "role"),
		Token:       stringField(rec, "token", "access_token", "accessToken"),
		Name:        stringField(rec, "name", "full_name", "fullName"),
		Permissions: stringsField(rec, "permissions"),
	})
	if !sess.Valid() {
		return nil, false
	}
	return &sess, true
}

// FromLogin builds a session from the backend login reply.
func FromLogin(resp models.LoginResponse) models.Session {
	name := ""
	if resp.User.FullName != nil {
		name = *resp.User.FullName
	}
	return normalizeSession(models.Session{
		ID:          resp.User.ID,
		Name:        name,
		Email:       resp.User.Email,
		Role:        string(resp.User.Role),
		Token:       resp.AccessToken,
		Permissions: resp.User.Permissions,
	})
}

func normalizeSession(s models.Session) models.Session {
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	s.Role = strings.TrimSpace(s.Role)
	s.Token = strings.TrimSpace(s.Token)
	s.Name = strings.TrimSpace(s.Name)
	if s.Permissions == nil {
		s.Permissions = []string{}
	}
	return s
}

func stringField(rec map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		value, ok := rec[key]
		if !ok {
			continue
		}
		var str string
		if err := json.Unmarshal(value, &str); err == nil && strings.TrimSpace(str) != "" {
			return str
		}
	}
	return ""
}

func intField(rec map[string]json.RawMessage, key string) int {
	value, ok := rec[key]
	if !ok {
		return 0
	}
	var n int
	if err := json.Unmarshal(value, &n); err == nil {
		return n
	}
	var str string
	if err := json.Unmarshal(value, &str); err == nil {
		if parsed, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
			return parsed
		}
	}
	return 0
}

func stringsField(rec map[string]json.RawMessage, key string) []string {
	value, ok := rec[key]
	if !ok {
		return nil
	}
	var list []string
	if err := json.Unmarshal(value, &list); err != nil {
		return nil
	}
	return list
}
