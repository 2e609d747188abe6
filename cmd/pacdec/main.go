package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"pacdec/codec"
	"pacdec/extract"
	"pacdec/lzp"
	"pacdec/pacfile"
	"pacdec/report"
	"pacdec/util"
)

func main() {
	if len(os.Args) == 2 && isVersionArg(os.Args[1]) {
		fmt.Println(util.BuildInfo())
		return
	}
	runDecompile(os.Args[1:])
}

func isVersionArg(arg string) bool {
	switch strings.TrimSpace(strings.ToLower(arg)) {
	case "version", "-v", "--version", "-version":
		return true
	default:
		return false
	}
}

func runDecompile(args []string) {
	fs := flag.NewFlagSet("pacdec", flag.ExitOnError)
	outPath := fs.String("o", "pac_output.json", "output JSON report path")
	geoipPath := fs.String("geoip", "", "GeoIP mmdb path for country annotation")
	zstdOut := fs.Bool("zstd", false, "zstd-compress the JSON report")
	textExports := fs.Bool("txt", true, "write domains/ips/cidrs text files next to the report")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		logrus.Fatalln("usage: pacdec [flags] <pac-file>")
	}
	pacPath := fs.Arg(0)

	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	logrus.Infoln("[Pacdec]", util.BuildInfo())

	content, err := pacfile.Load(pacPath)
	if err != nil {
		logrus.Fatalln(err)
	}
	logrus.Infof("[Pacdec] loaded %s (%d chars)", pacPath, len(content))

	art, err := pacfile.Parse(content)
	if err != nil {
		logrus.Fatalln(err)
	}
	logrus.Infof("[Pacdec] schedule: %d zones, payload %d chars, mask %d chars",
		len(art.Schedule), len(art.DomainsLZP), len(art.MaskLZP))

	// No meaningful mask means no meaningful decompression, so a transport
	// failure is fatal for the whole session.
	mask, err := codec.DecodeMask(art.MaskLZP)
	if err != nil {
		logrus.Fatalln("[Pacdec] control mask unusable:", err)
	}

	extractor := extract.NewExtractor(lzp.NewDecoder(), []byte(art.DomainsLZP), mask)
	results := extractor.Run(art.Schedule)

	var resolver report.CountryResolver
	if *geoipPath != "" {
		raw, err := os.ReadFile(*geoipPath)
		if err != nil {
			logrus.Fatalln(err)
		}
		resolver, err = report.NewCountryResolver(raw)
		if err != nil {
			logrus.Fatalln(err)
		}
	}

	rep := report.Build(report.Metadata{
		SourceFile: pacPath,
		SourceSize: len(content),
		ProxyRule:  art.ProxyRule,
	}, results, pacfile.DecodeIPList(art.RawIPs), art.Special, resolver)

	s := rep.Statistics
	logrus.Infof("[Pacdec] decompressed %d chars into %d domains across %d zones",
		s.DecompressedChars, s.TotalDomains, s.TotalZones)
	if s.ShortfallGroups > 0 {
		logrus.Warnf("[Pacdec] %d/%d groups fell short of their schedule",
			s.ShortfallGroups, s.TotalGroups)
	}
	if s.FillerDomains > 0 {
		logrus.Infof("[Pacdec] withheld %d filler records in %d zones",
			s.FillerDomains, s.ZonesWithFiller)
	}

	target := *outPath
	if *zstdOut && !strings.HasSuffix(target, ".zst") {
		target += ".zst"
	}
	if err := report.WriteJSON(target, rep, *zstdOut); err != nil {
		logrus.Fatalln(err)
	}
	logrus.Infoln("[Pacdec] report written to", target)

	if *textExports {
		base := strings.TrimSuffix(*outPath, ".json")
		exports := []struct {
			path  string
			write func(string, *report.Report) error
		}{
			{base + "_domains.txt", report.WriteDomainsText},
			{base + "_ips.txt", report.WriteIPsText},
			{base + "_cidrs.txt", report.WriteCIDRsText},
		}
		for _, e := range exports {
			if err := e.write(e.path, rep); err != nil {
				logrus.Fatalln(err)
			}
			logrus.Infoln("[Pacdec] export written to", e.path)
		}
	}
}
