package usecase

import (
	cryptorand "crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// 現在の時間
type Clock interface {
	Now() time.Time
}

// 取引コードを発行する約束
// DBを見に行かない。時刻＋乱数で実用上ユニーク
type TransactionCodeGenerator interface {
	NewCode() (string, error)
}

type RandomCodeGenerator struct {
	clock Clock
	rand  io.Reader
}

// DI
func NewRandomCodeGenerator(clock Clock) *RandomCodeGenerator {
	return &RandomCodeGenerator{clock: clock, rand: cryptorand.Reader}
}

// TRX-<unixミリ秒の下6桁>-<乱数4バイトのhex大文字>
func (g *RandomCodeGenerator) NewCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := io.ReadFull(g.rand, buf); err != nil {
		return "", err
	}

	millis := strconv.FormatInt(g.clock.Now().UnixMilli(), 10)
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}

	return fmt.Sprintf("TRX-%s-%s", millis, strings.ToUpper(hex.EncodeToString(buf))), nil
}
