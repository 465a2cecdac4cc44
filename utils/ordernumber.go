package utils

import (
	"crypto/rand"
	"math/big"
	"time"
)

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewOrderNumber returns ORD-YYYYMMDD-XXXXXX with six random base36 characters.
func NewOrderNumber(now time.Time) string {
	return "ORD-" + now.Format("20060102") + "-" + randomBase36(6)
}

func randomBase36(n int) string {
	limit := big.NewInt(int64(len(base36)))
	b := make([]byte, n)
	for i := range b {
		v, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic(err)
		}
		b[i] = base36[v.Int64()]
	}
	return string(b)
}
