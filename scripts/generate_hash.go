//go:build ignore

// generate_hash.go — утилита для генерации ключа API и его Argon2id хеша.
// Запуск: go run scripts/generate_hash.go [ключ]
// Без аргумента ключ генерируется случайно.
//
// Хеш вставьте в .env как API_KEY_HASH, ключ отдайте клиентскому приложению.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"glowkids.ru/activity-engine/internal/transport/rest/middleware"
)

// Параметры Argon2id
const (
	memory      uint32 = 65536 // 64 MB
	iterations  uint32 = 3
	parallelism uint8  = 2
)

func main() {
	key := ""
	if len(os.Args) > 1 {
		key = os.Args[1]
	} else {
		raw := make([]byte, 32)
		if _, err := rand.Read(raw); err != nil {
			fmt.Printf("Ошибка генерации ключа: %v\n", err)
			os.Exit(1)
		}
		key = base64.RawURLEncoding.EncodeToString(raw)
		fmt.Println("Ключ API (X-API-Key):")
		fmt.Println(key)
	}

	// Случайная соль (16 байт)
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		fmt.Printf("Ошибка генерации соли: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Хеш ключа (вставьте в .env как API_KEY_HASH):")
	fmt.Println(middleware.EncodeArgon2id(key, salt, memory, iterations, parallelism))
}
