package model

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Denom is the raw byte identifier of an asset.
type Denom string

const (
	DenomMel     Denom = "m"
	DenomSym     Denom = "s"
	DenomErg     Denom = "d"
	DenomNewCoin Denom = "(NEWCOIN)"
)

const customDenomPrefix = "CUSTOM-"

// MelDecimals is the number of fractional digits of MEL, SYM and ERG amounts.
const MelDecimals = 6

// CustomDenom returns the denom of a token created by the given transaction.
func CustomDenom(txhash TxHash) Denom {
	return Denom(txhash[:])
}

// DenomFromBytes wraps raw storage bytes.
func DenomFromBytes(b []byte) (Denom, error) {
	if len(b) == 0 {
		return "", errors.New("denom: empty")
	}
	return Denom(b), nil
}

// ParseDenom accepts the display form produced by String.
func ParseDenom(s string) (Denom, error) {
	switch strings.ToUpper(s) {
	case "":
		return "", errors.New("denom: empty")
	case "MEL":
		return DenomMel, nil
	case "SYM":
		return DenomSym, nil
	case "ERG":
		return DenomErg, nil
	case string(DenomNewCoin):
		return DenomNewCoin, nil
	}
	if strings.HasPrefix(strings.ToUpper(s), customDenomPrefix) {
		h, err := ParseHash(s[len(customDenomPrefix):])
		if err != nil {
			return "", fmt.Errorf("denom %q: %w", s, err)
		}
		return CustomDenom(h), nil
	}
	return Denom(s), nil
}

func (d Denom) Bytes() []byte {
	return []byte(d)
}

func (d Denom) String() string {
	switch d {
	case DenomMel:
		return "MEL"
	case DenomSym:
		return "SYM"
	case DenomErg:
		return "ERG"
	case DenomNewCoin:
		return string(DenomNewCoin)
	}
	if len(d) == HashSize {
		return customDenomPrefix + hex.EncodeToString([]byte(d))
	}
	if isPrintable(string(d)) {
		return string(d)
	}
	return hex.EncodeToString([]byte(d))
}

func (d Denom) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Denom) UnmarshalText(text []byte) error {
	parsed, err := ParseDenom(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func isPrintable(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
