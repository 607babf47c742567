package luhn

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

var (
	ErrInvalidLength = errors.New("prefix is longer than the total length minus the check digit")
	ErrInvalidPrefix = errors.New("prefix must contain digits only")
)

// Validate reports whether number is a non-empty digit string that passes
// the Luhn checksum. It never fails; malformed input is simply invalid.
func Validate(number string) bool {
	if number == "" || !IsDigits(number) {
		return false
	}

	sum := 0
	// every second digit from the right, starting at the one before the last
	for i := len(number) - 2; i >= 0; i -= 2 {
		d := int(number[i]-'0') * 2
		if d > 9 {
			d -= 9
		}
		sum += d
	}
	for i := len(number) - 1; i >= 0; i -= 2 {
		sum += int(number[i] - '0')
	}

	return sum%10 == 0
}

// Generate builds a synthetic Luhn-valid number of the given length that
// starts with prefix. The filler digits are random on every call.
func Generate(prefix string, length int) (string, error) {
	if !IsDigits(prefix) {
		return "", ErrInvalidPrefix
	}

	fill := length - len(prefix) - 1
	if fill < 0 {
		return "", fmt.Errorf("%w: prefix %d digits, length %d", ErrInvalidLength, len(prefix), length)
	}

	var sb strings.Builder
	sb.Grow(length)
	sb.WriteString(prefix)
	for i := 0; i < fill; i++ {
		sb.WriteByte('0' + byte(rand.IntN(10)))
	}

	body := sb.String()
	return body + string(CheckDigit(body)), nil
}

// CheckDigit returns the digit that makes body+digit pass Validate.
// body must be all digits.
func CheckDigit(body string) byte {
	sum, dbl := 0, true
	for i := len(body) - 1; i >= 0; i-- {
		d := int(body[i] - '0')
		if dbl {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		dbl = !dbl
	}
	return '0' + byte((10-sum%10)%10)
}

func IsDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
