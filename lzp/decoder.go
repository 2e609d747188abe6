// Package lzp decodes the prediction-table LZP stream embedded in PAC
// payloads. A control bit-mask selects, per output byte, between a byte
// predicted from recent context and a literal byte from the data stream.
package lzp

const (
	tableBits = 18
	tableSize = 1 << tableBits
	hashMask  = tableSize - 1
)

// Decoder is the state of one decompression session: the prediction table
// and the rolling context hash. State carries forward across Decode calls
// within a session; later output depends on earlier history, so one Decoder
// must never be shared between independent streams.
type Decoder struct {
	table []byte
	hash  uint32
}

func NewDecoder() *Decoder {
	return &Decoder{table: make([]byte, tableSize)}
}

// Decode produces up to limit bytes from the paired data and mask streams,
// both positioned at their next unread byte. Each mask byte governs 8 output
// bytes, low bit first: a 1 bit emits the predicted byte for the current
// context, a 0 bit emits the next literal from data and records it in the
// table. A mask byte is counted as consumed once any of its bits is
// processed; bits cut off by limit are dropped, not carried over.
//
// Stream exhaustion is not an error: when data runs out a 0 byte is emitted
// for every remaining literal bit, and when mask runs out Decode returns
// whatever was produced. The returned counts let the caller advance both
// streams and resume later in the same session.
func (d *Decoder) Decode(data, mask []byte, limit int) (out []byte, dataUsed, maskUsed int) {
	if limit <= 0 {
		return nil, 0, 0
	}
	out = make([]byte, 0, limit)
	for maskUsed < len(mask) && len(out) < limit {
		m := mask[maskUsed]
		maskUsed++
		for bit := 0; bit < 8 && len(out) < limit; bit++ {
			var c byte
			if m&(1<<bit) != 0 {
				c = d.table[d.hash]
			} else if dataUsed < len(data) {
				c = data[dataUsed]
				dataUsed++
				d.table[d.hash] = c
			}
			// else: literal requested but data exhausted, emit 0 as a
			// placeholder without touching the table.
			out = append(out, c)
			d.hash = ((d.hash << 7) ^ uint32(c)) & hashMask
		}
	}
	return out, dataUsed, maskUsed
}
