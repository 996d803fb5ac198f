package style

import (
	"strconv"
	"sync/atomic"
	"unicode/utf16"

	"github.com/gosimple/slug"
)

// Hasher produces unique scoped class names. Every call advances internal
// counter, so the same key hashed twice gives different names.
type Hasher struct {
	counter atomic.Uint64
}

// Hash returns scoped name for key in the form scoped__<key>__<hash>.
func (h *Hasher) Hash(key string) string {
	n := h.counter.Add(1) - 1
	units := utf16.Encode([]rune(key + "-" + strconv.FormatUint(n, 10)))

	// djb2 xor variant, string is consumed from the end
	var value int32 = 5381
	for i := len(units) - 1; i >= 0; i-- {
		value = value*33 ^ int32(units[i])
	}
	return "scoped__" + cleanKey(key) + "__" + strconv.FormatUint(uint64(uint32(value)), 10)
}

// HashKeys hashes every key.
func (h *Hasher) HashKeys(keys ...string) map[string]string {
	m := make(map[string]string, len(keys))
	for _, k := range keys {
		m[k] = h.Hash(k)
	}
	return m
}

// cleanKey makes sure key can be used as part of CSS class name.
func cleanKey(key string) string {
	for i, r := range key {
		if !(r == '-' || r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9')) {
			return slug.Make(key)
		}
	}
	return key
}
