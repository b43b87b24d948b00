package idgen

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

var ErrEmptyCode = errors.New("idgen: empty code")

// Encode renders a non-negative id in base62. Post URLs use this form.
func Encode(num int64) string {
	if num <= 0 {
		return "0"
	}

	var buf [11]byte // 62^11 > MaxInt64
	i := len(buf)
	for num > 0 {
		i--
		buf[i] = base62Alphabet[num%62]
		num /= 62
	}
	return string(buf[i:])
}

func Decode(code string) (int64, error) {
	if code == "" {
		return 0, ErrEmptyCode
	}

	var num int64
	for i := 0; i < len(code); i++ {
		digit := strings.IndexByte(base62Alphabet, code[i])
		if digit < 0 {
			return 0, fmt.Errorf("idgen: invalid base62 character %q", code[i])
		}
		if num > (math.MaxInt64-int64(digit))/62 {
			return 0, fmt.Errorf("idgen: code %q overflows int64", code)
		}
		num = num*62 + int64(digit)
	}
	return num, nil
}
