package dedupe

import (
	"errors"
	"math/bits"
	"net/netip"
	"strings"
)

var errBadMask = errors.New("mask is neither a netmask nor a hostmask")

// Normalize returns the comparison key of an address value.
//
// Prefixes covering a single host collapse to the bare address, other
// prefixes are masked to their network address. Anything that does not
// parse is returned trimmed but otherwise unchanged. Normalize is
// idempotent.
func Normalize(raw string) string {
	value := strings.TrimSpace(raw)

	if strings.Contains(value, "/") {
		prefix, err := parsePrefix(value)
		if err != nil {
			return value
		}
		if prefix.IsSingleIP() {
			return prefix.Addr().String()
		}
		return prefix.Masked().String()
	}

	addr, err := netip.ParseAddr(value)
	if err != nil {
		return value
	}
	return addr.String()
}

// parsePrefix accepts CIDR notation as well as IPv4 dotted masks
// ("10.0.0.0/255.255.255.0" or the hostmask "10.0.0.0/0.0.0.255").
// Host bits are allowed.
func parsePrefix(value string) (netip.Prefix, error) {
	prefix, err := netip.ParsePrefix(value)
	if err == nil {
		return prefix, nil
	}

	addrPart, maskPart, _ := strings.Cut(value, "/")
	if !strings.Contains(maskPart, ".") {
		return netip.Prefix{}, err
	}

	addr, aerr := netip.ParseAddr(addrPart)
	if aerr != nil || !addr.Is4() {
		return netip.Prefix{}, err
	}
	mask, merr := netip.ParseAddr(maskPart)
	if merr != nil || !mask.Is4() {
		return netip.Prefix{}, err
	}

	length, merr := maskLength(mask)
	if merr != nil {
		return netip.Prefix{}, merr
	}
	return addr.Prefix(length)
}

// maskLength converts a dotted IPv4 mask to a prefix length. Netmasks are
// tried before hostmasks, so 0.0.0.0 is /0.
func maskLength(mask netip.Addr) (int, error) {
	b := mask.As4()
	m := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])

	ones := bits.LeadingZeros32(^m)
	if ones == 32 || m<<ones == 0 {
		return ones, nil
	}

	zeros := bits.LeadingZeros32(m)
	if zeros == 32 || ^m<<zeros == 0 {
		return zeros, nil
	}
	return 0, errBadMask
}
