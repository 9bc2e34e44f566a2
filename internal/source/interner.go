package source

import (
	"slices"

	"golang.org/x/text/unicode/norm"
)

type StringID uint32

const NoStringID StringID = 0

// Interner deduplicates identifier and literal text into compact IDs.
// Text is NFC-normalized before interning so visually identical
// identifiers always collapse to the same StringID.
type Interner struct {
	byID  []string            // индекс -> строка (byID[0] = "" для NoStringID)
	index map[string]StringID // строка -> ID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": 0},
	}
}

// Intern вставляет строку и возвращает её ID.
// Если строка уже есть, возвращает существующий ID.
func (i *Interner) Intern(s string) StringID {
	s = norm.NFC.String(s)
	if id, ok := i.index[s]; ok {
		return id
	}

	// Собственная копия, чтобы не держать исходный буфер файла.
	cpy := string([]byte(s))
	id := StringID(len(i.byID))
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// InternBytes вставляет байты и возвращает ID строки.
func (i *Interner) InternBytes(b []byte) StringID {
	return i.Intern(string(b))
}

// Lookup возвращает строку по ID.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if !i.Has(id) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup возвращает строку по ID, паникует на невалидном ID.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

// Has проверяет, валиден ли ID.
func (i *Interner) Has(id StringID) bool {
	return int(id) >= 0 && int(id) < len(i.byID)
}

// Len возвращает количество строк, включая NoStringID.
func (i *Interner) Len() int {
	return len(i.byID)
}

// Snapshot возвращает копию всех строк.
func (i *Interner) Snapshot() []string {
	return slices.Clone(i.byID)
}
