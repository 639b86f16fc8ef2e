package validation

import (
	"errors"
	"fmt"
	"strings"

	"dbassistant/models"
)

var (
	ErrEmptyQuestion   = errors.New("question is empty")
	ErrUnknownDatabase = errors.New("database is not in the catalog")
)

// Question returns the question with surrounding whitespace removed, or
// ErrEmptyQuestion when nothing is left.
func Question(question string) (string, error) {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return "", ErrEmptyQuestion
	}
	return trimmed, nil
}

// Database resolves the database a query should run against. When the
// catalog is loaded the choice must be one of its keys. Before that any
// identifier is accepted and a blank one falls back to def.
func Database(database string, catalog models.Catalog, def string) (string, error) {
	database = strings.TrimSpace(database)
	if catalog.Len() == 0 {
		if database == "" {
			return def, nil
		}
		return database, nil
	}
	if !catalog.Has(database) {
		return "", fmt.Errorf("%w: %q", ErrUnknownDatabase, database)
	}
	return database, nil
}
