package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// StorageKey is the session storage key the cart is kept under.
const StorageKey = "cart"

// KV is session-scoped key-value storage.
type KV interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
}

// Persister writes the cart to session storage as a JSON object of item id
// to quantity, and reads it back.
type Persister struct {
	kv  KV
	key string
	log *zap.Logger
}

func NewPersister(kv KV, log *zap.Logger) *Persister {
	if log == nil {
		log = zap.NewNop()
	}
	return &Persister{kv: kv, key: StorageKey, log: log}
}

// Save encodes lines and writes them before returning.
func (p *Persister) Save(ctx context.Context, lines Lines) error {
	raw, err := Encode(lines)
	if err != nil {
		return err
	}
	return p.kv.SetItem(ctx, p.key, raw)
}

// Load reads the stored cart. A missing or malformed value yields an empty
// cart; a storage failure is returned so the stored value is not overwritten.
func (p *Persister) Load(ctx context.Context) (Lines, error) {
	raw, ok, err := p.kv.GetItem(ctx, p.key)
	if err != nil {
		return nil, fmt.Errorf("read stored cart: %w", err)
	}
	if !ok {
		return Lines{}, nil
	}
	lines, err := Decode(raw)
	if err != nil {
		p.log.Warn("discarding stored cart", zap.Error(err))
		return Lines{}, nil
	}
	return lines, nil
}

// Encode renders lines as a JSON object. Keys are sorted by encoding/json.
func Encode(lines Lines) (string, error) {
	if lines == nil {
		lines = Lines{}
	}
	b, err := json.Marshal(map[string]int(lines))
	if err != nil {
		return "", fmt.Errorf("encode cart: %w", err)
	}
	return string(b), nil
}

var errMalformed = errors.New("malformed cart")

// Decode parses a value written by Encode. Anything other than an object of
// string to positive integer is rejected.
func Decode(raw string) (Lines, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var m map[string]interface{}
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", errMalformed)
	}

	out := make(Lines, len(m))
	for id, v := range m {
		n, ok := v.(json.Number)
		if !ok {
			return nil, fmt.Errorf("%w: quantity of %q is not a number", errMalformed, id)
		}
		q, err := n.Int64()
		if err != nil || q <= 0 || q > int64(MaxQuantity) {
			return nil, fmt.Errorf("%w: quantity of %q is %s", errMalformed, id, n)
		}
		out[id] = int(q)
	}
	return out, nil
}
