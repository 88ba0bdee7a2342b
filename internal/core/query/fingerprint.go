// Package query keys asynchronous requests by their parameters and makes sure
// a response only lands if nothing newer was asked for in the meantime.
package query

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Fingerprint derives a stable key from request parameters. Struct fields are
// encoded in declaration order and map keys sorted, so equal parameters always
// produce the same fingerprint.
func Fingerprint(params any) (string, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("fingerprint params: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
