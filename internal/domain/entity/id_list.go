package entity

import (
	"database/sql/driver"
	"fmt"

	"github.com/lib/pq"
)

// IDList - упорядоченная последовательность идентификаторов, хранимая в колонке bigint[].
// Порядок значим: для участников это порядок ходов, для слов - порядок показа.
type IDList []uint

// Scan реализует интерфейс sql.Scanner для IDList
func (l *IDList) Scan(value interface{}) error {
	if value == nil {
		*l = IDList{}
		return nil
	}

	var raw pq.Int64Array
	if err := raw.Scan(value); err != nil {
		return fmt.Errorf("failed to scan bigint[] into IDList: %w", err)
	}

	out := make(IDList, 0, len(raw))
	for _, v := range raw {
		if v < 0 {
			return fmt.Errorf("failed to scan bigint[] into IDList: negative id %d", v)
		}
		out = append(out, uint(v))
	}
	*l = out
	return nil
}

// Value реализует интерфейс driver.Valuer для IDList.
// Пустой список пишется как '{}', а не NULL.
func (l IDList) Value() (driver.Value, error) {
	raw := make(pq.Int64Array, len(l))
	for i, v := range l {
		raw[i] = int64(v)
	}
	return raw.Value()
}

// Contains проверяет наличие id в списке
func (l IDList) Contains(id uint) bool {
	return l.IndexOf(id) >= 0
}

// IndexOf возвращает позицию id или -1
func (l IDList) IndexOf(id uint) int {
	for i, v := range l {
		if v == id {
			return i
		}
	}
	return -1
}

// Clone возвращает независимую копию списка
func (l IDList) Clone() IDList {
	out := make(IDList, len(l))
	copy(out, l)
	return out
}

// Without возвращает копию списка без id, сохраняя порядок остальных элементов
func (l IDList) Without(id uint) IDList {
	out := make(IDList, 0, len(l))
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Shuffler перемешивает n элементов через swap, как rand.Shuffle
type Shuffler func(n int, swap func(i, j int))

// Shuffled возвращает перемешанную копию списка, исходный список не меняется
func (l IDList) Shuffled(shuffle Shuffler) IDList {
	out := l.Clone()
	if shuffle != nil {
		shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	return out
}
