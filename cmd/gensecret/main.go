// Prints a random hex encoded key suitable for the SECRET_KEY setting.
//
// Usage: go run ./cmd/gensecret
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
)

// 256 bits, enough for HMAC-SHA256 token signing
const secretKeyBytesLen = 32

func main() {
	key := make([]byte, secretKeyBytesLen)

	if _, err := rand.Read(key); err != nil {
		fmt.Fprintf(os.Stderr, "error while generating secret key: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hex.EncodeToString(key))
}
