// Package pacfile locates and parses the literals embedded in a PAC script:
// the zone schedule, the compressed domain payload and its control mask, the
// base36 IP list, the special CIDR table and the proxy return rule.
package pacfile

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	E "github.com/sagernet/sing/common/exceptions"
	"github.com/sirupsen/logrus"

	"pacdec/extract"
)

// CIDR is one entry of the artifact's special network table.
type CIDR struct {
	IP   string
	Bits int
}

// Artifact holds every literal recovered from the PAC script text. DomainsLZP
// and MaskLZP are still in their transport encodings.
type Artifact struct {
	Schedule   extract.Schedule
	RawIPs     []string
	Special    []CIDR
	DomainsLZP string
	MaskLZP    string
	ProxyRule  string
}

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// Load reads a PAC artifact from disk. Archived snapshots are kept
// zstd-compressed; those are detected by magic and decompressed
// transparently.
func Load(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", E.Cause(err, "read pac artifact")
	}
	if bytes.HasPrefix(raw, zstdMagic) {
		decoder, err := zstd.NewReader(bytes.NewReader(raw))
		if err != nil {
			return "", E.Cause(err, "open zstd artifact")
		}
		defer decoder.Close()
		raw, err = io.ReadAll(decoder)
		if err != nil {
			return "", E.Cause(err, "decompress zstd artifact")
		}
	}
	return string(raw), nil
}

var (
	domainsRe   = regexp.MustCompile(`(?s)domains\s*=\s*\{(.*?)\};`)
	zoneRe      = regexp.MustCompile(`(?s)"([^"]+)"\s*:\s*\{([^}]*)\}`)
	groupRe     = regexp.MustCompile(`"(\d+)"\s*:\s*(\d+)`)
	ipListRe    = regexp.MustCompile(`(?s)var\s+d_ipaddr\s*=\s*"\\?\s*(.*?)"\s*\.split`)
	specialRe   = regexp.MustCompile(`(?s)var\s+special\s*=\s*\[(.*?)\];`)
	cidrRe      = regexp.MustCompile(`\["([^"]+)",\s*(\d+)\]`)
	dataRe      = regexp.MustCompile(`var\s+domains_lzp\s*=\s*"([^"]+)";`)
	maskRe      = regexp.MustCompile(`var\s+mask_lzp\s*=\s*"([^"]+)";`)
	proxyRuleRe = regexp.MustCompile(`return\s+"([^"]+)";`)

	lineContinuationRe = regexp.MustCompile(`\\\s*\n\s*`)
)

// Parse extracts all embedded literals from the script text. The compressed
// payload and mask are required; the remaining sections degrade to warnings
// so a stripped artifact still yields whatever it carries.
func Parse(content string) (*Artifact, error) {
	art := &Artifact{}

	if m := dataRe.FindStringSubmatch(content); m != nil {
		art.DomainsLZP = m[1]
	} else {
		return nil, E.New("domains_lzp literal not found")
	}
	if m := maskRe.FindStringSubmatch(content); m != nil {
		art.MaskLZP = m[1]
	} else {
		return nil, E.New("mask_lzp literal not found")
	}

	art.Schedule = parseSchedule(content)
	if len(art.Schedule) == 0 {
		logrus.Warnln("[Pacdec] domains schedule not found in artifact")
	}

	art.RawIPs = parseIPList(content)
	if len(art.RawIPs) == 0 {
		logrus.Warnln("[Pacdec] d_ipaddr list not found in artifact")
	}

	art.Special = parseSpecial(content)
	if len(art.Special) == 0 {
		logrus.Warnln("[Pacdec] special CIDR table not found in artifact")
	}

	if m := proxyRuleRe.FindStringSubmatch(content); m != nil {
		art.ProxyRule = m[1]
	}

	return art, nil
}

// parseSchedule pulls the `domains = {...}` object apart while preserving
// its textual order. Order is what ties each group to its slice of the
// decompressed stream.
func parseSchedule(content string) extract.Schedule {
	m := domainsRe.FindStringSubmatch(content)
	if m == nil {
		return nil
	}
	var schedule extract.Schedule
	for _, zone := range zoneRe.FindAllStringSubmatch(m[1], -1) {
		entry := extract.ZoneEntry{Zone: zone[1]}
		for _, group := range groupRe.FindAllStringSubmatch(zone[2], -1) {
			length, err := strconv.Atoi(group[1])
			if err != nil {
				continue
			}
			count, err := strconv.Atoi(group[2])
			if err != nil || count <= 0 {
				continue
			}
			entry.Groups = append(entry.Groups, extract.LengthGroup{Length: length, Count: count})
		}
		if len(entry.Groups) > 0 {
			schedule = append(schedule, entry)
		}
	}
	return schedule
}

func parseIPList(content string) []string {
	m := ipListRe.FindStringSubmatch(content)
	if m == nil {
		return nil
	}
	data := lineContinuationRe.ReplaceAllString(m[1], " ")
	data = strings.ReplaceAll(data, "\\", "")
	return strings.Fields(data)
}

func parseSpecial(content string) []CIDR {
	m := specialRe.FindStringSubmatch(content)
	if m == nil {
		return nil
	}
	var out []CIDR
	for _, entry := range cidrRe.FindAllStringSubmatch(m[1], -1) {
		bits, err := strconv.Atoi(entry[2])
		if err != nil || bits < 0 || bits > 32 {
			logrus.Warnf("[Pacdec] skip invalid CIDR entry %q/%q", entry[1], entry[2])
			continue
		}
		out = append(out, CIDR{IP: entry[1], Bits: bits})
	}
	return out
}
