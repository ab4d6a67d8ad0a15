package changelog

import (
	"strings"

	"github.com/oscarhermoso/cubecache/errors"
)

// MainboardName is the board every cube has.
const MainboardName = "Mainboard"

// Changelog is the set of card changes made to a cube in one edit, keyed by
// board name.
type Changelog map[string]Board

// Board lists the changes to one board. Card values are card ids.
type Board struct {
	Adds    []string  `json:"adds,omitempty"`
	Removes []Removal `json:"removes,omitempty"`
	Swaps   []Swap    `json:"swaps,omitempty"`
}

// Removal is a card taken out of a board.
type Removal struct {
	OldCard string `json:"oldCard"`
}

// Swap replaces OldCard with Card.
type Swap struct {
	Card    string `json:"card"`
	OldCard string `json:"oldCard"`
}

// Document is a changelog together with its index metadata.
type Document struct {
	ID     string
	CubeID string

	// Date is the creation time in unix milliseconds. Zero means "now" when
	// the document is written.
	Date int64

	Changelog Changelog
}

// Mainboard returns the main board's changes.
func (c Changelog) Mainboard() Board {
	return c[MainboardName]
}

// Board returns the changes to the named board.
func (c Changelog) Board(name string) (Board, bool) {
	b, ok := c[name]
	return b, ok
}

// IsEmpty reports whether no board has any change.
func (c Changelog) IsEmpty() bool {
	for _, b := range c {
		if !b.IsEmpty() {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the board has no adds, removes or swaps.
func (b Board) IsEmpty() bool {
	return len(b.Adds) == 0 && len(b.Removes) == 0 && len(b.Swaps) == 0
}

// Key returns the object key of a changelog body.
func Key(cubeID, id string) string {
	return "changelog/" + cubeID + "/" + id + ".json"
}

// validateIDs rejects ids that are empty or would change the key layout.
func validateIDs(cubeID, id string) error {
	for _, field := range []struct{ name, value string }{
		{"cube id", cubeID},
		{"changelog id", id},
	} {
		if strings.TrimSpace(field.value) == "" {
			return errors.Newf(errors.CodeInvalidInput, "%s is required", field.name)
		}
		if strings.ContainsAny(field.value, "/\\") || field.value == "." || field.value == ".." {
			return errors.Newf(errors.CodeInvalidInput, "invalid %s: %q", field.name, field.value)
		}
	}
	return nil
}

// Validate checks that the document can be written.
func (d Document) Validate() error {
	if err := validateIDs(d.CubeID, d.ID); err != nil {
		return err
	}
	if d.Changelog == nil {
		return errors.WithContext(
			errors.New(errors.CodeInvalidInput, "changelog is required"),
			"id", d.ID)
	}
	if d.Date < 0 {
		return errors.WithContext(
			errors.Newf(errors.CodeInvalidInput, "date must not be negative: %d", d.Date),
			"id", d.ID)
	}
	return nil
}
