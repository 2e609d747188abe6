package report

import (
	"net"
	"net/netip"
	"strings"

	"github.com/oschwald/maxminddb-golang"
	E "github.com/sagernet/sing/common/exceptions"
)

type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
	RegisteredCountry struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"registered_country"`
}

// NewCountryResolver builds a CountryResolver from a raw GeoIP mmdb image.
func NewCountryResolver(raw []byte) (CountryResolver, error) {
	reader, err := maxminddb.FromBytes(raw)
	if err != nil {
		return nil, E.Cause(err, "parse mmdb")
	}
	return func(ip string) (string, bool) {
		addr, err := netip.ParseAddr(ip)
		if err != nil {
			return "", false
		}
		var record countryRecord
		if err := reader.Lookup(net.IP(addr.Unmap().AsSlice()), &record); err != nil {
			return "", false
		}
		code := strings.TrimSpace(record.Country.ISOCode)
		if code == "" {
			code = strings.TrimSpace(record.RegisteredCountry.ISOCode)
		}
		if code == "" {
			return "", false
		}
		return code, true
	}, nil
}
