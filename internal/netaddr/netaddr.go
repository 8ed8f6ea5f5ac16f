// Package netaddr implements CIDR parsing, weighted random selection
// and IPv4 address synthesis.
package netaddr

import (
	"fmt"
	"strconv"
	"strings"

	"FlowForge/internal/ferrors"
	"FlowForge/internal/rng"
)

// ParseCIDR splits subnet at '/', returning the network address (host
// byte order, host bits masked to zero) and the number of addresses in
// the block (saturated to 0xFFFFFFFF for /0). A bare address with no prefix is treated as /32 (a single
// host). Prefixes outside [0,32] or a malformed address are
// ferrors.ErrInvalidCidr.
func ParseCIDR(subnet string) (base uint32, hostCount uint32, err error) {
	parts := strings.SplitN(subnet, "/", 2)
	ip, err := ipStringToUint32(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %v", ferrors.ErrInvalidCidr, subnet, err)
	}

	if len(parts) == 1 {
		return ip, 1, nil
	}

	prefix, err := strconv.Atoi(parts[1])
	if err != nil || prefix < 0 || prefix > 32 {
		return 0, 0, fmt.Errorf("%w: bad prefix in %s", ferrors.ErrInvalidCidr, subnet)
	}

	hostBits := 32 - prefix
	var count uint32
	if hostBits >= 32 {
		count = 0xFFFFFFFF
	} else {
		count = uint32(1) << uint(hostBits)
	}

	var mask uint32
	if prefix == 0 {
		mask = 0
	} else {
		mask = ^uint32(0) << uint(hostBits)
	}

	return ip & mask, count, nil
}

// RandomIPv4 picks an address with no subnet constraint: octet1 in
// [1,223] (avoiding the multicast/reserved ranges), octets 2-3 in
// [0,255], octet4 in [1,254] (avoiding the all-zeros and broadcast
// host addresses).
func RandomIPv4(r *rng.Source) uint32 {
	a := uint32(r.IntRange(1, 223))
	b := uint32(r.IntRange(0, 255))
	c := uint32(r.IntRange(0, 255))
	d := uint32(r.IntRange(1, 254))
	return a<<24 | b<<16 | c<<8 | d
}

// RandomIPv4InSubnet picks a host address within [base, base+hostCount).
// When hostCount <= 2 the block is too small to have distinct network
// and broadcast addresses, so it returns base+1; otherwise it skips the
// network and broadcast addresses and picks uniformly among the rest.
func RandomIPv4InSubnet(r *rng.Source, base, hostCount uint32) uint32 {
	if hostCount <= 2 {
		return base + 1
	}
	return base + uint32(r.IntRange(1, int(hostCount)-2))
}

// RandomIPv4FromSubnet parses subnet (empty string means "no subnet
// constraint") and returns a random address within it.
func RandomIPv4FromSubnet(r *rng.Source, subnet string) (uint32, error) {
	if subnet == "" {
		return RandomIPv4(r), nil
	}
	base, count, err := ParseCIDR(subnet)
	if err != nil {
		return 0, err
	}
	return RandomIPv4InSubnet(r, base, count), nil
}

// RandomIPv4FromSubnets picks one of the given subnets (weighted if
// weights is non-empty, uniform otherwise) and returns a random address
// within it. An empty subnets slice is treated as "no constraint".
func RandomIPv4FromSubnets(r *rng.Source, subnets []string, weights []float64) (uint32, error) {
	if len(subnets) == 0 {
		return RandomIPv4(r), nil
	}
	subnet, err := WeightedChoice(r, subnets, weights)
	if err != nil {
		return 0, err
	}
	return RandomIPv4FromSubnet(r, subnet)
}

// WeightedChoice picks one item from items. If weights is empty the
// choice is uniform; otherwise the weights are used as a cumulative
// distribution, drawn against uniform(0, sum(weights)), with the first
// item whose cumulative bound is met winning the draw (falling back to
// the last item against floating point error at the top of the range).
func WeightedChoice[T any](r *rng.Source, items []T, weights []float64) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ferrors.ErrEmptyInput
	}
	if len(weights) == 0 {
		return items[r.IntRange(0, len(items)-1)], nil
	}
	if len(weights) != len(items) {
		return zero, fmt.Errorf("%w: %d items, %d weights", ferrors.ErrWeightSizeMismatch, len(items), len(weights))
	}

	var total float64
	for _, w := range weights {
		total += w
	}

	draw := r.Uniform(0, total)
	var cumsum float64
	for i, w := range weights {
		cumsum += w
		if draw <= cumsum {
			return items[i], nil
		}
	}
	return items[len(items)-1], nil
}

// CalculateFlowsPerSecond converts a simulated link bandwidth into a
// flow rate given an average flow packet size.
func CalculateFlowsPerSecond(bandwidthGbps float64, avgPacketSize uint32) float64 {
	return bandwidthGbps * 1e9 / 8.0 / float64(avgPacketSize)
}

// Uint32ToIPString renders an address held in host byte order as
// dotted-decimal, e.g. 0xC0A80101 -> "192.168.1.1".
func Uint32ToIPString(ip uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d", ip>>24&0xFF, ip>>16&0xFF, ip>>8&0xFF, ip&0xFF)
}

// IPStringToUint32 parses dotted-decimal IPv4 into host byte order.
func IPStringToUint32(s string) (uint32, error) {
	return ipStringToUint32(s)
}

func ipStringToUint32(s string) (uint32, error) {
	octets := strings.Split(s, ".")
	if len(octets) != 4 {
		return 0, fmt.Errorf("not a dotted-decimal IPv4 address: %q", s)
	}
	var ip uint32
	for _, o := range octets {
		v, err := strconv.Atoi(o)
		if err != nil || v < 0 || v > 255 {
			return 0, fmt.Errorf("bad octet %q in %q", o, s)
		}
		ip = ip<<8 | uint32(v)
	}
	return ip, nil
}
