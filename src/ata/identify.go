package ata

import "strings"

// The identify payload is a 256-word record; only a few fields are
// consumed. Word offsets per ATA8-ACS:
//   27-46   model string (byte-swapped ASCII)
//   60-61   LBA28 addressable sectors
//   83      bit 10: LBA48 supported
//   100-103 LBA48 addressable sectors
const (
	id_model_off   = 27
	id_model_words = 20
	id_lba28_off   = 60
	id_feat83_off  = 83
	id_lba48_off   = 100

	id_feat83_lba48 uint16 = 1 << 10
)

type identify_t struct {
	model         string
	lba28_sectors uint32
	lba48         bool
	lba48_sectors uint64
}

// each identify string word carries its two characters swapped
func swab(w []uint16) string {
	b := make([]uint8, 0, 2*len(w))
	for _, v := range w {
		b = append(b, uint8(v>>8), uint8(v))
	}
	return string(b)
}

func parse_identify(w *[256]uint16) *identify_t {
	id := &identify_t{}
	id.model = strings.TrimSpace(swab(w[id_model_off : id_model_off+id_model_words]))
	id.lba28_sectors = uint32(w[id_lba28_off]) | uint32(w[id_lba28_off+1])<<16
	id.lba48 = w[id_feat83_off]&id_feat83_lba48 != 0
	if id.lba48 {
		for i := 3; i >= 0; i-- {
			id.lba48_sectors = id.lba48_sectors<<16 | uint64(w[id_lba48_off+i])
		}
	}
	return id
}
