package pacfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
)

const samplePAC = `
function FindProxyForURL(url, host) {
	domains = {"com": {"4": 8, "6": 12}, "ru": {"5": 10}};
	var d_ipaddr = "\
		3k 1 \
		2s".split(" ");
	var special = [["10.0.0.0", 8], ["192.168.0.0", 16], ["bad", 99]];
	var domains_lzp = "abc!Kdef";
	var mask_lzp = "QUFB";
	return "PROXY 127.0.0.1:3128; DIRECT";
}
`

func TestParseSample(t *testing.T) {
	art, err := Parse(samplePAC)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if art.DomainsLZP != "abc!Kdef" {
		t.Fatalf("unexpected data literal: %q", art.DomainsLZP)
	}
	if art.MaskLZP != "QUFB" {
		t.Fatalf("unexpected mask literal: %q", art.MaskLZP)
	}
	if art.ProxyRule != "PROXY 127.0.0.1:3128; DIRECT" {
		t.Fatalf("unexpected proxy rule: %q", art.ProxyRule)
	}

	if len(art.Schedule) != 2 {
		t.Fatalf("unexpected schedule: %+v", art.Schedule)
	}
	if art.Schedule[0].Zone != "com" || art.Schedule[1].Zone != "ru" {
		t.Fatalf("schedule order lost: %+v", art.Schedule)
	}
	com := art.Schedule[0].Groups
	if len(com) != 2 || com[0].Length != 4 || com[0].Count != 8 || com[1].Length != 6 || com[1].Count != 12 {
		t.Fatalf("unexpected com groups: %+v", com)
	}

	if len(art.RawIPs) != 3 || art.RawIPs[0] != "3k" || art.RawIPs[2] != "2s" {
		t.Fatalf("unexpected raw IPs: %+v", art.RawIPs)
	}

	if len(art.Special) != 2 {
		t.Fatalf("invalid CIDR entries must be skipped: %+v", art.Special)
	}
	if art.Special[0].IP != "10.0.0.0" || art.Special[0].Bits != 8 {
		t.Fatalf("unexpected CIDR: %+v", art.Special[0])
	}
}

func TestParseMissingPayload(t *testing.T) {
	if _, err := Parse(`var mask_lzp = "AA";`); err == nil {
		t.Fatal("expected error for missing domains_lzp")
	}
	if _, err := Parse(`var domains_lzp = "AA";`); err == nil {
		t.Fatal("expected error for missing mask_lzp")
	}
}

func TestLoadPlainAndZstd(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "pac.pac")
	if err := os.WriteFile(plain, []byte(samplePAC), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(plain)
	if err != nil || got != samplePAC {
		t.Fatalf("plain load failed: %v", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	packed := filepath.Join(dir, "pac.pac.zst")
	if err := os.WriteFile(packed, enc.EncodeAll([]byte(samplePAC), nil), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = Load(packed)
	if err != nil || got != samplePAC {
		t.Fatalf("zstd load failed: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.pac")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDecodeIPList(t *testing.T) {
	// "3k" = 128, then delta "1" -> 129, then "2s" = 100 -> 229.
	got := DecodeIPList([]string{"3k", "1", "2s", "???", "zz"})

	if len(got) != 5 {
		t.Fatalf("unexpected length: %d", len(got))
	}
	wantAddrs := []string{"0.0.0.128", "0.0.0.129", "0.0.0.229"}
	for i, want := range wantAddrs {
		if !got[i].Valid || got[i].Addr.String() != want {
			t.Fatalf("entry %d: %+v, want %s", i, got[i], want)
		}
	}
	if got[3].Valid {
		t.Fatalf("entry 3 should be invalid: %+v", got[3])
	}
	// "zz" = 1295 resumes from the last good value 229.
	if !got[4].Valid || got[4].Addr.String() != "0.0.5.244" {
		t.Fatalf("entry 4: %+v", got[4])
	}
}

func TestNetmaskFromBits(t *testing.T) {
	cases := []struct {
		bits int
		want string
	}{
		{0, "0.0.0.0"},
		{8, "255.0.0.0"},
		{17, "255.255.128.0"},
		{24, "255.255.255.0"},
		{32, "255.255.255.255"},
	}
	for _, c := range cases {
		if got := NetmaskFromBits(c.bits); got != c.want {
			t.Fatalf("NetmaskFromBits(%d) = %q, want %q", c.bits, got, c.want)
		}
	}
}
