package translate

import (
	"errors"
	"strings"

	"github.com/agenthands/mechcheck/internal/core/common"
	"github.com/agenthands/mechcheck/internal/core/model"
)

const (
	peroxyMarker = "(OO.)"
	// A bonding dot before the marker is a known false positive in GECKO-A.
	peroxyNegated = ".(OO.)"
)

// Classifier decides RO2 membership from the structural notation of a species.
type Classifier struct {
	Translator *Translator
	Primary    model.Convention
	Structural model.Convention
}

func NewClassifier(t *Translator, primary, structural model.Convention) *Classifier {
	return &Classifier{
		Translator: t,
		Primary:    primary,
		Structural: structural,
	}
}

// IsRO2 reports whether name is a peroxy radical. A translation miss counts as
// not RO2; other errors (e.g. a missing column) are returned.
func (c *Classifier) IsRO2(name string) (bool, error) {
	structural, err := c.Translator.Translate(name, c.Primary, c.Structural)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return IsPeroxy(structural), nil
}

// Classify returns the RO2 subset of names, in input order.
func (c *Classifier) Classify(names []string) ([]string, error) {
	var ro2 []string
	for _, name := range names {
		ok, err := c.IsRO2(name)
		if err != nil {
			return nil, err
		}
		if ok {
			ro2 = append(ro2, name)
		}
	}
	return ro2, nil
}

// IsPeroxy tests a structural-notation string for the peroxy group.
func IsPeroxy(structural string) bool {
	return strings.Contains(structural, peroxyMarker) && !strings.Contains(structural, peroxyNegated)
}
