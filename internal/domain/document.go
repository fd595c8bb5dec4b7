// document.go

package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// SavedAtLayout формат времени сохранения снимка (ISO 8601, UTC, миллисекунды)
const SavedAtLayout = "2006-01-02T15:04:05.000Z"

// HistoryEntry представляет неизменяемый снимок значения счетчика
type HistoryEntry struct {
	ID      string `json:"id"`
	Value   int64  `json:"value"`
	SavedAt string `json:"savedAt"`
}

// NewHistoryEntry создает снимок значения на момент времени at
func NewHistoryEntry(id string, value int64, at time.Time) HistoryEntry {
	return HistoryEntry{
		ID:      id,
		Value:   value,
		SavedAt: at.UTC().Format(SavedAtLayout),
	}
}

// Document представляет все сохраняемое состояние: счетчик и два списка истории.
// DeletedHistory используется как стек: последний элемент удален последним.
type Document struct {
	Counter        int64          `json:"counter"`
	History        []HistoryEntry `json:"history"`
	DeletedHistory []HistoryEntry `json:"deletedHistory"`
}

// NewDocument возвращает документ по умолчанию
func NewDocument() *Document {
	return &Document{
		Counter:        0,
		History:        []HistoryEntry{},
		DeletedHistory: []HistoryEntry{},
	}
}

// rawDocument используется только при чтении: указатели позволяют отличить
// отсутствующее поле от пустого списка
type rawDocument struct {
	Counter        *int64          `json:"counter"`
	History        *[]HistoryEntry `json:"history"`
	DeletedHistory *[]HistoryEntry `json:"deletedHistory"`
}

// DecodeDocument разбирает сохраненный документ и применяет миграции.
// upgraded == true означает, что документ был дополнен и его нужно сохранить.
func DecodeDocument(data []byte) (*Document, bool, error) {
	var raw *rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false, fmt.Errorf("%w: decode document: %v", ErrStorageFailure, err)
	}

	// Без счетчика это не наш документ: мигрировать нечего, перезаписывать нельзя
	if raw == nil {
		return nil, false, fmt.Errorf("%w: decode document: null document", ErrStorageFailure)
	}
	if raw.Counter == nil {
		return nil, false, fmt.Errorf("%w: decode document: counter is missing", ErrStorageFailure)
	}

	doc, upgraded := migrate(*raw)
	return doc, upgraded, nil
}

// migrate приводит старые версии документа к текущей схеме
func migrate(raw rawDocument) (*Document, bool) {
	doc := &Document{Counter: *raw.Counter}
	upgraded := false

	if raw.History == nil {
		doc.History = []HistoryEntry{}
		upgraded = true
	} else {
		doc.History = *raw.History
	}

	// Ранние версии не знали о корзине
	if raw.DeletedHistory == nil {
		doc.DeletedHistory = []HistoryEntry{}
		upgraded = true
	} else {
		doc.DeletedHistory = *raw.DeletedHistory
	}

	return doc, upgraded
}

// Encode сериализует документ целиком
func (d *Document) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode document: %v", ErrStorageFailure, err)
	}
	return data, nil
}

// Reset возвращает документ в состояние по умолчанию
func (d *Document) Reset() {
	d.Counter = 0
	d.History = []HistoryEntry{}
	d.DeletedHistory = []HistoryEntry{}
}

// AddToCounter прибавляет delta к счетчику, не допуская переполнения int64
func (d *Document) AddToCounter(delta int64) error {
	sum := d.Counter + delta
	if (delta > 0 && sum < d.Counter) || (delta < 0 && sum > d.Counter) {
		return fmt.Errorf("%w: %d %+d", ErrCounterOverflow, d.Counter, delta)
	}
	d.Counter = sum
	return nil
}

// SubtractFromCounter вычитает delta из счетчика, не допуская переполнения int64
func (d *Document) SubtractFromCounter(delta int64) error {
	diff := d.Counter - delta
	if (delta > 0 && diff > d.Counter) || (delta < 0 && diff < d.Counter) {
		return fmt.Errorf("%w: %d - %d", ErrCounterOverflow, d.Counter, delta)
	}
	d.Counter = diff
	return nil
}

// AppendHistory добавляет снимок в активную историю
func (d *Document) AppendHistory(entry HistoryEntry) {
	d.History = append(d.History, entry)
}

// SoftDelete переносит запись с указанным id из истории на вершину стека удаленных.
// Возвращает false, если запись не найдена.
func (d *Document) SoftDelete(id string) bool {
	for i, entry := range d.History {
		if entry.ID != id {
			continue
		}
		d.History = append(d.History[:i:i], d.History[i+1:]...)
		d.DeletedHistory = append(d.DeletedHistory, entry)
		return true
	}
	return false
}

// SoftDeleteAll переносит всю историю в стек удаленных, сохраняя порядок
func (d *Document) SoftDeleteAll() int {
	moved := len(d.History)
	d.DeletedHistory = append(d.DeletedHistory, d.History...)
	d.History = []HistoryEntry{}
	return moved
}

// RestoreLast снимает запись с вершины стека удаленных и возвращает ее в историю
func (d *Document) RestoreLast() (HistoryEntry, error) {
	if len(d.DeletedHistory) == 0 {
		return HistoryEntry{}, ErrNothingToRestore
	}

	last := len(d.DeletedHistory) - 1
	entry := d.DeletedHistory[last]
	d.DeletedHistory = d.DeletedHistory[:last:last]
	d.History = append(d.History, entry)
	return entry, nil
}

// Clone возвращает копию документа, не разделяющую срезы с оригиналом
func (d *Document) Clone() *Document {
	clone := &Document{
		Counter:        d.Counter,
		History:        make([]HistoryEntry, len(d.History)),
		DeletedHistory: make([]HistoryEntry, len(d.DeletedHistory)),
	}
	copy(clone.History, d.History)
	copy(clone.DeletedHistory, d.DeletedHistory)
	return clone
}
