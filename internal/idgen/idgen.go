// Package idgen генерирует идентификаторы вида <PREFIX>-<timestamp>-<4 цифры>.
package idgen

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// Префиксы идентификаторов.
const (
	PrefixUser       = "USR"
	PrefixBooking    = "BKG"
	PrefixTicket     = "TKT"
	PrefixTxn        = "TXN"
	PrefixRefund     = "RFD"
	PrefixRedemption = "RDM"
	PrefixProgram    = "LPG"
)

// Generator выдаёт уникальные строковые идентификаторы.
// Уникальность вероятностная.
type Generator interface {
	New(prefix string) string
}

const suffixSpace = 10000

// Random генерирует идентификаторы на основе текущего времени и случайного суффикса.
// В пределах одной миллисекунды суффиксы не повторяются. Когда суффиксы
// миллисекунды для префикса исчерпаны, генератор переходит к следующей
// миллисекунде, не дожидаясь часов, поэтому метка времени не убывает.
type Random struct {
	mu     sync.Mutex
	now    func() time.Time
	ms     int64
	used   map[string]struct{}
	counts map[string]int
}

// NewRandom создаёт генератор на системных часах.
func NewRandom() *Random {
	return &Random{now: time.Now}
}

// New возвращает новый идентификатор с указанным префиксом.
func (r *Random) New(prefix string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ms := r.now().UnixMilli(); ms > r.ms || r.used == nil {
		r.reset(ms)
	}
	if r.counts[prefix] >= suffixSpace {
		r.reset(r.ms + 1)
	}

	for {
		id := fmt.Sprintf("%s-%d-%04d", prefix, r.ms, rand.IntN(suffixSpace))
		if _, ok := r.used[id]; !ok {
			r.used[id] = struct{}{}
			r.counts[prefix]++
			return id
		}
	}
}

func (r *Random) reset(ms int64) {
	r.ms = ms
	r.used = make(map[string]struct{})
	r.counts = make(map[string]int)
}
