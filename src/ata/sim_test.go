package ata

import "sync"

// simdisk_t emulates one legacy ATA controller with a master disk
// behind it, at the register level the driver talks to. It implements
// portio.Portio_i. Tests use it to script floating buses, transfer
// errors and latency, and to count port traffic.
type simdisk_t struct {
	sync.Mutex
	bus  uint16
	ctrl uint16

	floating bool
	exists   bool
	nsectors uint32
	lba48    bool
	model    string
	store    map[uint64]*[Sector_size]uint8

	// register file
	count  uint8
	sector uint8
	cyllo  uint8
	cylhi  uint8
	drive  uint8
	status uint8

	// cylinder signature presented after a soft reset
	sigcl uint8
	sigch uint8

	// in-flight command
	mode    int
	databuf []uint8
	dataoff int
	xlba    uint64
	xsect   int
	xdone   int

	// fault/latency injection
	failat int // raise ERR before this sector index; -1 off
	bsyfor int // status reads that report BSY first

	// instrumentation
	ndatain  int // data-port words read
	ndataout int // data-port words written
	ncmd     int
	nflush   int
	nreset   int
	seqopen  bool
	seqviol  bool
}

const (
	simidle = iota
	simident
	simread
	simwrite
)

func mksim() *simdisk_t {
	s := &simdisk_t{}
	s.bus = ATA_PRIMARY_BUS
	s.ctrl = ATA_PRIMARY_CTRL
	s.exists = true
	s.nsectors = 0x20000
	s.model = "SIM HARDDISK"
	s.store = make(map[uint64]*[Sector_size]uint8)
	s.status = status_rdy
	s.failat = -1
	return s
}

func (s *simdisk_t) sectordata(lba uint64) *[Sector_size]uint8 {
	if sec, ok := s.store[lba]; ok {
		return sec
	}
	sec := &[Sector_size]uint8{}
	s.store[lba] = sec
	return sec
}

// a register write that belongs to a new command sequence while another
// sequence is still in flight means two callers interleaved
func (s *simdisk_t) setupreg() {
	if s.seqopen {
		s.seqviol = true
	}
}

func (s *simdisk_t) mkident() []uint8 {
	var w [256]uint16
	for i := 0; i < id_model_words; i++ {
		var hi, lo uint8 = ' ', ' '
		if 2*i < len(s.model) {
			hi = s.model[2*i]
		}
		if 2*i+1 < len(s.model) {
			lo = s.model[2*i+1]
		}
		w[id_model_off+i] = uint16(hi)<<8 | uint16(lo)
	}
	w[id_lba28_off] = uint16(s.nsectors)
	w[id_lba28_off+1] = uint16(s.nsectors >> 16)
	if s.lba48 {
		w[id_feat83_off] |= id_feat83_lba48
		w[id_lba48_off] = uint16(s.nsectors)
		w[id_lba48_off+1] = uint16(s.nsectors >> 16)
	}
	b := make([]uint8, 0, 2*len(w))
	for _, v := range w {
		b = append(b, uint8(v), uint8(v>>8))
	}
	return b
}

func (s *simdisk_t) command(cmd uint8) {
	switch cmd {
	case cmd_identify:
		if !s.exists {
			s.status = 0
			return
		}
		s.cyllo, s.cylhi = 0, 0
		s.databuf = s.mkident()
		s.dataoff = 0
		s.mode = simident
		s.status = status_rdy | status_drq
	case cmd_read_sectors, cmd_write_sectors:
		s.ncmd++
		s.xlba = uint64(s.drive&0xf)<<24 | uint64(s.cylhi)<<16 |
			uint64(s.cyllo)<<8 | uint64(s.sector)
		s.xsect = int(s.count)
		s.xdone = 0
		s.dataoff = 0
		s.seqopen = true
		s.status = status_rdy | status_drq
		if s.xlba+uint64(s.xsect) > uint64(s.nsectors) {
			s.status |= status_err
			s.seqopen = false
			return
		}
		if cmd == cmd_read_sectors {
			s.mode = simread
			s.databuf = make([]uint8, s.xsect*Sector_size)
			for i := 0; i < s.xsect; i++ {
				copy(s.databuf[i*Sector_size:], s.sectordata(s.xlba+uint64(i))[:])
			}
		} else {
			s.mode = simwrite
			s.databuf = make([]uint8, s.xsect*Sector_size)
		}
		if s.failat == 0 {
			s.status |= status_err
			s.seqopen = false
		}
	case cmd_cache_flush:
		s.nflush++
	default:
		panic("simdisk: unknown command")
	}
}

func (s *simdisk_t) chanreset() {
	s.nreset++
	s.mode = simidle
	s.seqopen = false
	s.status = status_rdy
	s.cyllo = s.sigcl
	s.cylhi = s.sigch
}

func (s *simdisk_t) Inb(port uint16) uint8 {
	s.Lock()
	defer s.Unlock()
	if s.floating && port >= s.bus && port < s.bus+8 {
		return 0xff
	}
	switch port {
	case s.bus + reg_status:
		if s.bsyfor > 0 {
			s.bsyfor--
			return s.status | status_bsy
		}
		return s.status
	case s.bus + reg_error:
		return 0
	case s.bus + reg_cyllo:
		return s.cyllo
	case s.bus + reg_cylhi:
		return s.cylhi
	case s.ctrl + ctrl_altstatus:
		if s.bsyfor > 0 {
			return s.status | status_bsy
		}
		return s.status
	}
	panic("simdisk: inb of unhandled port")
}

func (s *simdisk_t) Inw(port uint16) uint16 {
	s.Lock()
	defer s.Unlock()
	if port != s.bus+reg_data {
		panic("simdisk: inw of non-data port")
	}
	if s.mode != simident && s.mode != simread {
		panic("simdisk: data read with no transfer pending")
	}
	if s.status&status_drq == 0 {
		panic("simdisk: data read without DRQ")
	}
	w := uint16(s.databuf[s.dataoff]) | uint16(s.databuf[s.dataoff+1])<<8
	s.dataoff += 2
	if s.mode == simread {
		s.ndatain++
	}
	if s.dataoff == len(s.databuf) {
		s.mode = simidle
		s.status = status_rdy
		s.seqopen = false
	} else if s.mode == simread && s.dataoff%Sector_size == 0 {
		s.xdone++
		if s.failat >= 0 && s.xdone == s.failat {
			s.status |= status_err
			s.seqopen = false
		}
	}
	return w
}

func (s *simdisk_t) Outb(port uint16, v uint8) {
	s.Lock()
	defer s.Unlock()
	switch port {
	case s.bus + reg_count:
		s.setupreg()
		s.count = v
	case s.bus + reg_sector:
		s.setupreg()
		s.sector = v
	case s.bus + reg_cyllo:
		s.setupreg()
		s.cyllo = v
	case s.bus + reg_cylhi:
		s.setupreg()
		s.cylhi = v
	case s.bus + reg_drive:
		s.setupreg()
		s.drive = v
	case s.bus + reg_command:
		s.command(v)
	case s.ctrl + ctrl_devctl:
		if v&devctl_srst != 0 {
			s.chanreset()
		}
	default:
		panic("simdisk: outb of unhandled port")
	}
}

func (s *simdisk_t) Outw(port uint16, v uint16) {
	s.Lock()
	defer s.Unlock()
	if port != s.bus+reg_data {
		panic("simdisk: outw of non-data port")
	}
	if s.mode != simwrite {
		panic("simdisk: data write with no write pending")
	}
	if s.status&status_drq == 0 {
		panic("simdisk: data write without DRQ")
	}
	s.databuf[s.dataoff] = uint8(v)
	s.databuf[s.dataoff+1] = uint8(v >> 8)
	s.dataoff += 2
	s.ndataout++
	if s.dataoff%Sector_size == 0 {
		copy(s.sectordata(s.xlba+uint64(s.xdone))[:],
			s.databuf[s.xdone*Sector_size:s.dataoff])
		s.xdone++
		if s.xdone == s.xsect {
			s.mode = simidle
			s.status = status_rdy
			s.seqopen = false
		} else if s.failat >= 0 && s.xdone == s.failat {
			s.status |= status_err
			s.seqopen = false
		}
	}
}

// muxpio_t fans port accesses out to per-controller simulators by
// address range, like a machine with several channels.
type muxpio_t struct {
	sims []*simdisk_t
}

func (m *muxpio_t) owner(port uint16) *simdisk_t {
	for _, s := range m.sims {
		if (port >= s.bus && port < s.bus+8) ||
			(port >= s.ctrl && port < s.ctrl+2) {
			return s
		}
	}
	panic("muxpio: port owned by no controller")
}

func (m *muxpio_t) Inb(port uint16) uint8 {
	return m.owner(port).Inb(port)
}

func (m *muxpio_t) Inw(port uint16) uint16 {
	return m.owner(port).Inw(port)
}

func (m *muxpio_t) Outb(port uint16, v uint8) {
	m.owner(port).Outb(port, v)
}

func (m *muxpio_t) Outw(port uint16, v uint16) {
	m.owner(port).Outw(port, v)
}
