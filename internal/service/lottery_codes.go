package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/luckyscan/internal/constants"

	"github.com/google/uuid"
)

var tokenAlphabetSize = big.NewInt(int64(len(constants.TokenCodeAlphabet)))

// generateTokenCode 生成 前缀+随机 base36 大写字符 的券码
func generateTokenCode(prefix string, length int) (string, error) {
	if length <= 0 {
		length = 6
	}
	var builder strings.Builder
	builder.Grow(len(prefix) + length)
	builder.WriteString(prefix)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, tokenAlphabetSize)
		if err != nil {
			return "", err
		}
		builder.WriteByte(constants.TokenCodeAlphabet[n.Int64()])
	}
	return builder.String(), nil
}

// generatePrizeCode 生成 WIN-<券码>-<4位十六进制> 的兑奖码
func generatePrizeCode(tokenCode string) (string, error) {
	buf := make([]byte, 2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%s", constants.PrizeCodePrefix, tokenCode, strings.ToUpper(hex.EncodeToString(buf))), nil
}

// generateTokenBatchNo 生成券码批次号
func generateTokenBatchNo(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("TB%s%s", now.Format("20060102150405"), suffix)
}

// normalizeTokenPrefix 券码前缀仅保留字母数字并转大写
func normalizeTokenPrefix(prefix string) string {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	var builder strings.Builder
	for _, r := range prefix {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			builder.WriteRune(r)
		}
	}
	result := builder.String()
	if len(result) > 8 {
		result = result[:8]
	}
	return result
}
