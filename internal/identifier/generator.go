// Package identifier produces the type-prefixed random ids used for accounts,
// customers and transaction postings. The generator does not guarantee global
// uniqueness; the store rejects a duplicate key on insert and callers
// regenerate and retry.
package identifier

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/seyio/bankledger/internal/domain"
)

const (
	suffixLen      = 6
	suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	customerPrefix = "CID"
)

// Generator is a stateless id source. The zero value is not usable; construct
// with New. A custom random source can be injected for tests.
type Generator struct {
	source io.Reader
}

func New() *Generator {
	return &Generator{source: rand.Reader}
}

func NewWithSource(source io.Reader) *Generator {
	return &Generator{source: source}
}

// AccountID returns a new account id: the type prefix followed by a 6-char
// random suffix, e.g. "CH4f0a2e".
func (g *Generator) AccountID(t domain.AccountType) (string, error) {
	suffix, err := g.suffix()
	if err != nil {
		return "", fmt.Errorf("AccountID: %w", err)
	}
	return t.Prefix() + suffix, nil
}

// CustomerID returns a new customer id prefixed "CID".
func (g *Generator) CustomerID() (string, error) {
	suffix, err := g.suffix()
	if err != nil {
		return "", fmt.Errorf("CustomerID: %w", err)
	}
	return customerPrefix + suffix, nil
}

// TransferSuffix returns the random token shared by the debit and credit ids
// of one transfer pair.
func (g *Generator) TransferSuffix() (string, error) {
	suffix, err := g.suffix()
	if err != nil {
		return "", fmt.Errorf("TransferSuffix: %w", err)
	}
	return suffix, nil
}

func (g *Generator) suffix() (string, error) {
	buf := make([]byte, suffixLen)
	if _, err := io.ReadFull(g.source, buf); err != nil {
		return "", fmt.Errorf("read random source: %w", err)
	}
	for i, b := range buf {
		buf[i] = suffixAlphabet[int(b)%len(suffixAlphabet)]
	}
	return string(buf), nil
}
