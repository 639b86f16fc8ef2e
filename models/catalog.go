package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CatalogEntry is one selectable database.
type CatalogEntry struct {
	Key         string `json:"key"`
	Description string `json:"description"`
}

// Catalog maps database identifiers to descriptions. It is encoded as a JSON
// object but keeps the order in which keys arrived.
type Catalog struct {
	entries []CatalogEntry
}

// NewCatalog builds a catalog from entries; a repeated key keeps its first
// position and takes the last description.
func NewCatalog(entries ...CatalogEntry) Catalog {
	var c Catalog
	for _, e := range entries {
		c.set(e.Key, e.Description)
	}
	return c
}

func (c *Catalog) set(key, description string) {
	for i := range c.entries {
		if c.entries[i].Key == key {
			c.entries[i].Description = description
			return
		}
	}
	c.entries = append(c.entries, CatalogEntry{Key: key, Description: description})
}

func (c Catalog) Len() int { return len(c.entries) }

// Entries returns a copy of the entries in backend order.
func (c Catalog) Entries() []CatalogEntry {
	out := make([]CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c Catalog) Has(key string) bool {
	_, ok := c.Description(key)
	return ok
}

func (c Catalog) Description(key string) (string, bool) {
	for _, e := range c.entries {
		if e.Key == key {
			return e.Description, true
		}
	}
	return "", false
}

func (c *Catalog) UnmarshalJSON(b []byte) error {
	c.entries = nil
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("catalog must be a JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read catalog key: %w", err)
		}
		key, _ := keyTok.(string)

		var description string
		if err := dec.Decode(&description); err != nil {
			return fmt.Errorf("failed to read description of %q: %w", key, err)
		}
		c.set(key, description)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to read end of catalog: %w", err)
	}
	return nil
}

func (c Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range c.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		desc, err := json.Marshal(e.Description)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(desc)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
