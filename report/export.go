package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
	E "github.com/sagernet/sing/common/exceptions"
)

// WriteJSON writes the report as indented JSON. With compress set the file
// is zstd-framed; pair it with a .zst suffix in the caller.
func WriteJSON(path string, rep *Report, compress bool) error {
	payload, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return E.Cause(err, "marshal report")
	}
	f, err := os.Create(path)
	if err != nil {
		return E.Cause(err, "create report file")
	}
	defer f.Close()

	if compress {
		enc, err := zstd.NewWriter(f)
		if err != nil {
			return E.Cause(err, "open zstd writer")
		}
		if _, err := enc.Write(payload); err != nil {
			enc.Close()
			return E.Cause(err, "write compressed report")
		}
		return enc.Close()
	}
	_, err = f.Write(payload)
	return err
}

// WriteIPsText writes one decoded address per line, skipping invalid
// entries.
func WriteIPsText(path string, rep *Report) error {
	return writeLines(path, func(w *bufio.Writer) error {
		for _, ip := range rep.IPAddresses {
			if ip.Invalid {
				continue
			}
			if ip.Country != "" {
				fmt.Fprintf(w, "%s\t%s\n", ip.Address, ip.Country)
			} else {
				fmt.Fprintln(w, ip.Address)
			}
		}
		return nil
	})
}

// WriteCIDRsText writes each special range as ip/bits with its netmask.
func WriteCIDRsText(path string, rep *Report) error {
	return writeLines(path, func(w *bufio.Writer) error {
		for _, c := range rep.CIDRRanges {
			fmt.Fprintf(w, "%s/%d (mask: %s)\n", c.IP, c.Bits, c.Netmask)
		}
		return nil
	})
}

// WriteDomainsText writes the recovered domains grouped by zone and length.
func WriteDomainsText(path string, rep *Report) error {
	return writeLines(path, func(w *bufio.Writer) error {
		for _, zone := range rep.Zones {
			fmt.Fprintf(w, "# zone .%s\n", zone.Zone)
			for _, group := range zone.Groups {
				if group.Error != "" {
					fmt.Fprintf(w, "# length %d: %s\n", group.Length, group.Error)
					continue
				}
				for _, domain := range group.Domains {
					fmt.Fprintf(w, "%s.%s\n", domain, zone.Zone)
				}
			}
		}
		return nil
	})
}

func writeLines(path string, fill func(*bufio.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return E.Cause(err, "create export file")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := fill(w); err != nil {
		return err
	}
	return w.Flush()
}
