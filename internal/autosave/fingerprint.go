package autosave

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"bcms/internal/models"
)

// Fingerprint returns a comparison key for post content. Two documents with
// identical structural content always produce the same fingerprint, even
// when they are distinct in-memory objects or their raw block payloads
// differ in key order or whitespace.
func Fingerprint(doc *models.Document) (string, error) {
	if doc == nil {
		sum := blake2b.Sum256([]byte("null"))
		return hex.EncodeToString(sum[:]), nil
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode content: %w", err)
	}

	// Round-trip through a generic value: maps marshal with sorted keys,
	// which canonicalizes the raw block payloads.
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", fmt.Errorf("canonicalize content: %w", err)
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("canonicalize content: %w", err)
	}

	sum := blake2b.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
