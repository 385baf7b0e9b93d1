package ata

/// Legacy controller port pairs. Init probes only the primary pair;
/// enumeration collaborators may register the secondary themselves.
const (
	ATA_PRIMARY_BUS    uint16 = 0x1f0
	ATA_PRIMARY_CTRL   uint16 = 0x3f6
	ATA_SECONDARY_BUS  uint16 = 0x170
	ATA_SECONDARY_CTRL uint16 = 0x376
)

// command block register offsets
const (
	reg_data    uint16 = 0
	reg_error   uint16 = 1
	reg_count   uint16 = 2
	reg_sector  uint16 = 3
	reg_cyllo   uint16 = 4
	reg_cylhi   uint16 = 5
	reg_drive   uint16 = 6
	reg_status  uint16 = 7
	reg_command uint16 = 7
)

// control block register offsets
const (
	ctrl_altstatus uint16 = 0
	ctrl_devctl    uint16 = 0
)

// status register bits
const (
	status_err uint8 = 0x01
	status_drq uint8 = 0x08
	status_df  uint8 = 0x20
	status_rdy uint8 = 0x40
	status_bsy uint8 = 0x80
)

// commands
const (
	cmd_read_sectors  uint8 = 0x20
	cmd_write_sectors uint8 = 0x30
	cmd_cache_flush   uint8 = 0xe7
	cmd_identify      uint8 = 0xec
)

// drive-select values. The probe forms address device 0/1 directly; the
// transfer forms add the LBA mode bit and carry LBA bits 24-27 in the
// low nibble.
const (
	drive_master     uint8 = 0xa0
	drive_slave      uint8 = 0xb0
	drive_lba_master uint8 = 0xe0
	drive_lba_slave  uint8 = 0xf0
)

// device control bits
const (
	devctl_srst uint8 = 1 << 2
)

/// Sector_size is the fixed transfer unit of this driver.
const Sector_size = 512

const sector_words = Sector_size / 2

/// Maxsectors is the per-request sector limit; the hardware count
/// register is one byte and this driver does not use the 0-means-256
/// encoding.
const Maxsectors = 0xff

// 28-bit addressing only; LBA48 transfers are rejected outright.
const lba28_max = 1 << 28
