package order

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var (
	rnd   = rand.New(rand.NewSource(time.Now().UnixNano()))
	rndMu sync.Mutex

	// mockable
	intnFunc = func(n int) int {
		rndMu.Lock()
		defer rndMu.Unlock()
		return rnd.Intn(n)
	}
)

// NewID returns a human readable order id: ATF-######.
func NewID() string {
	return fmt.Sprintf("ATF-%06d", intnFunc(1000000))
}

// NewTrackingNumber returns a transaction-style tracking number: TXN-#######.
func NewTrackingNumber() string {
	return fmt.Sprintf("TXN-%d", 1000000+intnFunc(9000000))
}
