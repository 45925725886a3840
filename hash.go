package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

const (
	HashLen = 8

	HashMd5    = "md5"
	HashXxhash = "xxhash"
)

// HashFunc returns the fingerprint of data,
// which must be HashLen lowercase hex characters.
type HashFunc func(data []byte) string

var reHashSuffix = regexp.MustCompile(`-[a-f0-9]{8}\.(js|css)$`)

// Md5 is the default HashFunc. It produces the same names
// as the older Node build script, so caches stay warm across the switch.
func Md5(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])[:HashLen]
}

func Xxhash(data []byte) string {
	s := strconv.FormatUint(xxhash.Sum64(data), 16)
	for len(s) < 16 {
		s = "0" + s
	}

	return s[:HashLen]
}

func HashFuncOf(name string) (HashFunc, error) {
	switch name {
	case "", HashMd5:
		return Md5, nil

	case HashXxhash:
		return Xxhash, nil
	}

	return nil, fmt.Errorf("unknown hash algorithm '%s'", name)
}

// IsHashed reports whether name looks like <name>-<8 hex>.js or .css
func IsHashed(name string) bool {
	return reHashSuffix.MatchString(name)
}
