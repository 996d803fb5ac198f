package style

import (
	"encoding/base64"
	"sync"
)

const dataURLPrefix = "data:text/css;base64,"

// LinkCache remembers href produced for the last seen stylesheet, so
// re-rendering with unchanged styles does not produce a new link target.
type LinkCache struct {
	mu     sync.Mutex
	input  string
	href   string
	filled bool
}

// Get returns cached href if input matches the last seen stylesheet.
func (c *LinkCache) Get(input string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.filled || c.input != input {
		return "", false
	}
	return c.href, true
}

// Href returns link target for stylesheet, reusing cached one when possible.
// Empty stylesheet has no target.
func (c *LinkCache) Href(input string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.filled && c.input == input {
		return c.href
	}
	c.input, c.filled = input, true
	if input == "" {
		c.href = ""
	} else {
		c.href = dataURLPrefix + base64.StdEncoding.EncodeToString([]byte(input))
	}
	return c.href
}
