package translate

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/agenthands/mechcheck/internal/core/common"
	"github.com/agenthands/mechcheck/internal/core/model"
)

// Dummy is returned for an empty input name.
const Dummy = "DUMMY"

// Translator maps species names between the naming conventions of one table.
// Misses are recorded so callers can report them as one batch.
type Translator struct {
	Table  *model.TranslationTable
	Policy model.MatchPolicy
	Logger *zap.Logger

	mu     sync.Mutex
	misses map[string]struct{}
}

func NewTranslator(table *model.TranslationTable, policy model.MatchPolicy, logger *zap.Logger) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Translator{
		Table:  table,
		Policy: policy,
		Logger: logger,
		misses: make(map[string]struct{}),
	}
}

// Translate looks name up in the from column and returns the to column of the
// matching row. With FirstMatch the earliest row wins, otherwise the latest.
// Rows where either cell is a placeholder never match. A miss returns a
// *common.NotFoundError.
func (t *Translator) Translate(name string, from, to model.Convention) (string, error) {
	if name == "" {
		return Dummy, nil
	}

	row, toIdx, err := t.lookup(name, from, to)
	if err != nil {
		return "", err
	}
	if row < 0 {
		t.recordMiss(name)
		t.Logger.Debug("No translation found",
			zap.String("name", name),
			zap.String("from", string(from)),
			zap.String("to", string(to)))
		return "", &common.NotFoundError{Name: name, From: string(from), To: string(to)}
	}
	return t.Table.Cell(row, toIdx), nil
}

// Row returns the index of the row name resolves to under the translator's
// policy, or a NotFoundError.
func (t *Translator) Row(name string, from model.Convention) (int, error) {
	row, _, err := t.lookup(name, from, from)
	if err != nil {
		return -1, err
	}
	if row < 0 {
		return -1, &common.NotFoundError{Name: name, From: string(from), To: string(from)}
	}
	return row, nil
}

func (t *Translator) lookup(name string, from, to model.Convention) (int, int, error) {
	fromIdx, err := t.Table.ColumnIndex(from)
	if err != nil {
		return -1, -1, &common.FormatError{Path: t.Table.Path, Marker: string(from), Msg: err.Error()}
	}
	toIdx, err := t.Table.ColumnIndex(to)
	if err != nil {
		return -1, -1, &common.FormatError{Path: t.Table.Path, Marker: string(to), Msg: err.Error()}
	}

	found := -1
	for row := 0; row < t.Table.Len(); row++ {
		key := t.Table.Cell(row, fromIdx)
		if key != name || model.IsPlaceholder(key) || model.IsPlaceholder(t.Table.Cell(row, toIdx)) {
			continue
		}
		found = row
		if t.Policy == model.FirstMatch {
			break
		}
	}
	return found, toIdx, nil
}

func (t *Translator) recordMiss(name string) {
	t.mu.Lock()
	t.misses[name] = struct{}{}
	t.mu.Unlock()
}

// Misses returns every name that failed to translate, sorted.
func (t *Translator) Misses() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.misses))
	for name := range t.misses {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
