package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"glowkids.ru/activity-engine/internal/common"
)

// APIKeyHeader — заголовок с ключом API.
const APIKeyHeader = "X-API-Key"

// APIKeyAuth проверяет ключ API по хешу Argon2id.
// Пустой хеш отключает проверку (локальная разработка).
type APIKeyAuth struct {
	encodedHash string

	mu       sync.RWMutex
	verified map[[sha256.Size]byte]struct{} // Уже проверенные ключи: Argon2id дорогой
}

func NewAPIKeyAuth(encodedHash string) *APIKeyAuth {
	return &APIKeyAuth{
		encodedHash: strings.TrimSpace(encodedHash),
		verified:    make(map[[sha256.Size]byte]struct{}),
	}
}

// Enabled — включена ли проверка.
func (a *APIKeyAuth) Enabled() bool {
	return a.encodedHash != ""
}

// Check проверяет ключ.
func (a *APIKeyAuth) Check(key string) bool {
	if !a.Enabled() {
		return true
	}
	if key == "" {
		return false
	}

	digest := sha256.Sum256([]byte(key))
	a.mu.RLock()
	_, ok := a.verified[digest]
	a.mu.RUnlock()
	if ok {
		return true
	}

	if !VerifyArgon2id(key, a.encodedHash) {
		return false
	}
	a.mu.Lock()
	a.verified[digest] = struct{}{}
	a.mu.Unlock()
	return true
}

// RequireKey отвечает 401 без корректного X-API-Key.
func (a *APIKeyAuth) RequireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Check(r.Header.Get(APIKeyHeader)) {
			log.WithFields(log.Fields{
				"component": "api_key",
				"ip":        ClientIP(r),
				"path":      r.URL.Path,
			}).Warn("Неверный ключ API")
			writeError(w, http.StatusUnauthorized, common.ErrUnauthorized.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// VerifyArgon2id сверяет секрет с хешем Argon2id.
// Формат хеша: $argon2id$v=19$m=65536,t=3,p=2$<salt_base64>$<hash_base64>
func VerifyArgon2id(secret, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		log.Error("Некорректный формат хеша Argon2id")
		return false
	}

	var memory uint32
	var iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		log.WithError(err).Error("Ошибка парсинга параметров Argon2id")
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования соли")
		return false
	}
	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования хеша")
		return false
	}

	computedHash := argon2.IDKey([]byte(secret), salt, iterations, memory, parallelism, uint32(len(expectedHash)))

	// Сравниваем в постоянном времени
	return subtle.ConstantTimeCompare(computedHash, expectedHash) == 1
}

// EncodeArgon2id строит строку хеша в формате, который понимает VerifyArgon2id.
func EncodeArgon2id(secret string, salt []byte, memory, iterations uint32, parallelism uint8) string {
	hash := argon2.IDKey([]byte(secret), salt, iterations, memory, parallelism, 32)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, memory, iterations, parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)
}
