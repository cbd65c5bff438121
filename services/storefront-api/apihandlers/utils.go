package apihandlers

import (
	"math/rand"
	"time"
)

// stubbed in tests to keep the failure paths fast
var randomWait = func(minTimeSec int, maxTimeSec int) {
	time.Sleep(time.Duration(rand.Intn(maxTimeSec-minTimeSec)+minTimeSec) * time.Second)
}
