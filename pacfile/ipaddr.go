package pacfile

import (
	"math"
	"net/netip"
	"strconv"
	"strings"
)

// DecodedIP pairs one raw base36 entry with its decoded address. Invalid
// entries are kept with Valid=false so positions in the list stay aligned
// with the artifact.
type DecodedIP struct {
	Raw   string
	Addr  netip.Addr
	Valid bool
}

// DecodeIPList decodes the artifact's delta-encoded base36 IP list. Each
// entry is a base36 offset added to the previous absolute value; a failed
// entry leaves the running value untouched.
func DecodeIPList(raw []string) []DecodedIP {
	out := make([]DecodedIP, 0, len(raw))
	var prev uint64
	for _, s := range raw {
		entry := DecodedIP{Raw: s}
		delta, err := strconv.ParseUint(strings.TrimSpace(s), 36, 64)
		if err == nil {
			cur := prev + delta
			if cur <= math.MaxUint32 {
				entry.Addr = netip.AddrFrom4([4]byte{
					byte(cur >> 24), byte(cur >> 16), byte(cur >> 8), byte(cur),
				})
				entry.Valid = true
				prev = cur
			}
		}
		out = append(out, entry)
	}
	return out
}

// NetmaskFromBits converts a CIDR prefix length to a dotted-quad netmask.
func NetmaskFromBits(bits int) string {
	octets := make([]string, 0, 4)
	remaining := bits
	for i := 0; i < 4; i++ {
		inOctet := remaining
		if inOctet > 8 {
			inOctet = 8
		}
		if inOctet < 0 {
			inOctet = 0
		}
		octets = append(octets, strconv.Itoa(256-(1<<(8-inOctet))))
		remaining -= inOctet
	}
	return strings.Join(octets, ".")
}
