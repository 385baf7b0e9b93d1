package ata

import "defs"

// The protocol engine. Every sequence here runs under the device mutex;
// the register order is fixed by the hardware and must not change.

func (a *Ata_t) haserr(d *Device_t) bool {
	return a.pio.Inb(d.bus+reg_status)&status_err != 0
}

// a floating bus reads as all ones: no controller at this address
func (a *Ata_t) floating(d *Device_t) bool {
	return a.pio.Inb(d.bus+reg_status) == 0xff
}

// settle gives the controller 400ns to latch a drive select or sector
// boundary: four discarded reads of the alternate status register.
func (a *Ata_t) settle(d *Device_t) {
	for i := 0; i < 4; i++ {
		a.pio.Inb(d.ctrl + ctrl_altstatus)
	}
}

/// Reset toggles the soft-reset bit in the device control register,
/// forcing both drives on the channel into a known state.
func (a *Ata_t) Reset(d *Device_t) {
	if d == nil {
		return
	}
	d.Lock()
	defer d.Unlock()
	a.reset(d)
}

// caller holds the device mutex
func (a *Ata_t) reset(d *Device_t) {
	reg := d.ctrl + ctrl_devctl
	v := a.pio.Inb(reg)
	a.pio.Outb(reg, v|devctl_srst)
	a.pio.Outb(reg, v&^devctl_srst)
}

func (a *Ata_t) selectdrive(d *Device_t, slave bool) {
	sel := drive_master
	if slave {
		sel = drive_slave
	}
	a.pio.Outb(d.bus+reg_drive, sel)
}

// identify runs the bring-up probe for one drive and returns the parsed
// payload. The busy spin is raw polling: the window is defined by the
// hardware to be short, so no yield, but complain if it is not.
func (a *Ata_t) identify(d *Device_t, slave bool) (*identify_t, defs.Err_t) {
	a.selectdrive(d, slave)
	a.pio.Outb(d.bus+reg_count, 0)
	a.pio.Outb(d.bus+reg_sector, 0)
	a.pio.Outb(d.bus+reg_cyllo, 0)
	a.pio.Outb(d.bus+reg_cylhi, 0)
	a.pio.Outb(d.bus+reg_command, cmd_identify)
	if a.pio.Inb(d.bus+reg_status) == 0 {
		// no device behind this select
		return nil, -defs.ENXIO
	}
	c := 0
	for a.pio.Inb(d.bus+reg_status)&status_bsy != 0 {
		c++
		if c > 10000000 {
			a.log.Warnf("ata: identify busy for a very long time at %#x", d.bus)
			c = 0
		}
	}
	if a.pio.Inb(d.bus+reg_cyllo) != 0 || a.pio.Inb(d.bus+reg_cylhi) != 0 {
		// not an ATA disk (ATAPI and friends park a signature here)
		return nil, -defs.ENXIO
	}
	var st uint8
	for {
		st = a.pio.Inb(d.bus + reg_status)
		if st&(status_err|status_drq) != 0 {
			break
		}
		c++
		if c > 10000000 {
			a.log.Warnf("ata: waiting a very long time for identify DRQ at %#x", d.bus)
			c = 0
		}
	}
	if st&status_err != 0 {
		return nil, -defs.ENXIO
	}
	var words [256]uint16
	for i := range words {
		words[i] = a.pio.Inw(d.bus + reg_data)
	}
	return parse_identify(&words), 0
}

// setupxfer writes the fixed register sequence that starts a transfer:
// drive select with LBA bits 24-27, sector count, then the low, mid and
// high address bytes, then the command.
func (a *Ata_t) setupxfer(d *Device_t, slave bool, lba uint64, sectors int, cmd uint8) {
	sel := drive_lba_master
	if slave {
		sel = drive_lba_slave
	}
	a.pio.Outb(d.bus+reg_drive, sel|uint8((lba>>24)&0xf))
	a.pio.Outb(d.bus+reg_count, uint8(sectors))
	a.pio.Outb(d.bus+reg_sector, uint8(lba))
	a.pio.Outb(d.bus+reg_cyllo, uint8(lba>>8))
	a.pio.Outb(d.bus+reg_cylhi, uint8(lba>>16))
	a.pio.Outb(d.bus+reg_command, cmd)
}

func (a *Ata_t) readsectors(d *Device_t, slave bool, lba uint64, buf []uint8, sectors int) defs.Err_t {
	d.Lock()
	defer d.Unlock()

	a.setupxfer(d, slave, lba, sectors, cmd_read_sectors)
	for i := 0; i < sectors; i++ {
		if err := a.wait_ready(d); err != 0 {
			return err
		}
		if a.haserr(d) {
			// abort; sectors already in buf stay as-is
			return -defs.EIO
		}
		o := i * Sector_size
		for j := 0; j < sector_words; j++ {
			w := a.pio.Inw(d.bus + reg_data)
			buf[o] = uint8(w)
			buf[o+1] = uint8(w >> 8)
			o += 2
		}
		if i != sectors-1 {
			a.settle(d)
		}
	}
	return 0
}

func (a *Ata_t) writesectors(d *Device_t, slave bool, lba uint64, buf []uint8, sectors int) defs.Err_t {
	d.Lock()
	defer d.Unlock()

	a.setupxfer(d, slave, lba, sectors, cmd_write_sectors)
	for i := 0; i < sectors; i++ {
		if err := a.wait_ready(d); err != 0 {
			return err
		}
		if a.haserr(d) {
			// sectors before i are on disk; no rollback
			return -defs.EIO
		}
		o := i * Sector_size
		for j := 0; j < sector_words; j++ {
			w := uint16(buf[o]) | uint16(buf[o+1])<<8
			a.pio.Outw(d.bus+reg_data, w)
			o += 2
		}
	}
	a.pio.Outb(d.bus+reg_command, cmd_cache_flush)
	return 0
}

/// Get_type classifies the drive behind the given select by soft
/// resetting the channel and reading the cylinder signature pair. Pure
/// probe, no data transfer.
func (a *Ata_t) Get_type(d *Device_t, slave bool) defs.Atatype_t {
	if d == nil {
		return defs.ATA_TYPE_UNKNOWN
	}
	d.Lock()
	defer d.Unlock()

	a.reset(d)
	a.selectdrive(d, slave)
	a.settle(d)
	cl := a.pio.Inb(d.bus + reg_cyllo)
	ch := a.pio.Inb(d.bus + reg_cylhi)
	switch {
	case cl == 0x00 && ch == 0x00:
		return defs.ATA_TYPE_PATA
	case cl == 0x14 && ch == 0xeb:
		return defs.ATA_TYPE_PATAPI
	case cl == 0x3c && ch == 0xc3:
		return defs.ATA_TYPE_SATA
	case cl == 0x69 && ch == 0x96:
		return defs.ATA_TYPE_SATAPI
	}
	return defs.ATA_TYPE_UNKNOWN
}
