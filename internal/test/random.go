package test

import (
	"math/rand"
	"sync"
	"time"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomCode returns an identifier like "WB-7K2Q9" usable as SKC, shop or waybill.
// The random part is between minLen and maxLen characters long.
func RandomCode(prefix string, minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	length := minLen
	if maxLen > minLen {
		length += randomIntn(maxLen - minLen + 1)
	}
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = codeAlphabet[randomIntn(len(codeAlphabet))]
	}
	if prefix == "" {
		return string(buf)
	}
	return prefix + "-" + string(buf)
}

func randomIntn(n int) int {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Intn(n)
}
