// Package report assembles the decompiled artifact data into exportable
// form: domains split into fixed-width records, decoded IPs with optional
// country annotation, CIDR ranges with netmasks, and aggregate statistics.
package report

import (
	"sort"
	"strings"

	"github.com/chen3feng/stl4go"

	"pacdec/extract"
	"pacdec/pacfile"
)

type Metadata struct {
	SourceFile string `json:"source_file"`
	SourceSize int    `json:"source_size"`
	ProxyRule  string `json:"proxy_rule,omitempty"`
}

type Statistics struct {
	TotalZones        int `json:"total_zones"`
	TotalGroups       int `json:"total_groups"`
	SuccessfulGroups  int `json:"successful_groups"`
	ShortfallGroups   int `json:"shortfall_groups"`
	DecompressedChars int `json:"decompressed_chars"`
	TotalDomains      int `json:"total_domains"`
	FillerDomains     int `json:"filler_domains"`
	ZonesWithFiller   int `json:"zones_with_filler"`
}

type Group struct {
	Length  int      `json:"length"`
	Domains []string `json:"domains,omitempty"`
	Filler  int      `json:"filler_records,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type Zone struct {
	Zone   string  `json:"zone"`
	Groups []Group `json:"groups"`
}

type IPEntry struct {
	Raw     string `json:"raw"`
	Address string `json:"address,omitempty"`
	Country string `json:"country,omitempty"`
	Invalid bool   `json:"invalid,omitempty"`
}

type CIDREntry struct {
	IP      string `json:"ip"`
	Bits    int    `json:"bits"`
	Netmask string `json:"netmask"`
}

type Report struct {
	Metadata    Metadata    `json:"metadata"`
	Statistics  Statistics  `json:"statistics"`
	Zones       []Zone      `json:"domains"`
	IPAddresses []IPEntry   `json:"ip_addresses"`
	CIDRRanges  []CIDREntry `json:"cidr_ranges"`
}

// CountryResolver maps a decoded address to an ISO country code.
type CountryResolver func(ip string) (string, bool)

// Build folds the extraction results and decoded address data into a Report.
// resolver may be nil; then no country annotation is attempted.
func Build(meta Metadata, results []extract.GroupResult, ips []pacfile.DecodedIP,
	cidrs []pacfile.CIDR, resolver CountryResolver) *Report {

	rep := &Report{Metadata: meta}

	zones := stl4go.MakeBuiltinSetOf[string]()
	fillerZones := stl4go.MakeBuiltinSetOf[string]()

	var current *Zone
	for _, res := range results {
		zones.Insert(res.Zone)
		if current == nil || current.Zone != res.Zone {
			rep.Zones = append(rep.Zones, Zone{Zone: res.Zone})
			current = &rep.Zones[len(rep.Zones)-1]
		}

		rep.Statistics.TotalGroups++
		group := Group{Length: res.Length}
		if res.Err != nil {
			rep.Statistics.ShortfallGroups++
			group.Error = res.Err.Error()
		} else {
			rep.Statistics.SuccessfulGroups++
			rep.Statistics.DecompressedChars += res.Required
			group.Domains, group.Filler = splitRecords(res.Text, res.Length)
			rep.Statistics.TotalDomains += len(group.Domains)
			rep.Statistics.FillerDomains += group.Filler
			if group.Filler > 0 {
				fillerZones.Insert(res.Zone)
			}
		}
		current.Groups = append(current.Groups, group)
	}

	rep.Statistics.TotalZones = zones.Len()
	rep.Statistics.ZonesWithFiller = fillerZones.Len()

	for _, ip := range ips {
		entry := IPEntry{Raw: ip.Raw, Invalid: !ip.Valid}
		if ip.Valid {
			entry.Address = ip.Addr.String()
			if resolver != nil {
				if code, ok := resolver(entry.Address); ok {
					entry.Country = code
				}
			}
		}
		rep.IPAddresses = append(rep.IPAddresses, entry)
	}

	for _, c := range cidrs {
		rep.CIDRRanges = append(rep.CIDRRanges, CIDREntry{
			IP:      c.IP,
			Bits:    c.Bits,
			Netmask: pacfile.NetmaskFromBits(c.Bits),
		})
	}
	sort.SliceStable(rep.CIDRRanges, func(i, j int) bool {
		return rep.CIDRRanges[i].Bits < rep.CIDRRanges[j].Bits
	})

	return rep
}

// splitRecords slices an expanded group blob into width-sized records.
// Records carrying zero-filler bytes are counted and withheld from the
// domain list. A short tail (stream flushed on exhaustion) is kept as its
// own record.
func splitRecords(text string, width int) (domains []string, filler int) {
	if width <= 0 {
		if text != "" {
			domains = append(domains, text)
		}
		return domains, 0
	}
	for start := 0; start < len(text); start += width {
		end := start + width
		if end > len(text) {
			end = len(text)
		}
		record := text[start:end]
		if strings.ContainsRune(record, 0) {
			filler++
			continue
		}
		domains = append(domains, record)
	}
	return domains, filler
}
