// Package ata drives disks behind legacy parallel ATA controllers in
// register-polled (PIO) mode. It exposes sector read/write and a device
// type probe to the block layer and hides the controller's register
// protocol, timing rules and transient-error handling.
//
// Some useful docs:
// - http://wiki.osdev.org/ATA_PIO_Mode
// - ATA8-ACS: http://www.t13.org/documents/uploadeddocuments/docs2007/d1699r4a-ata8-acs.pdf
package ata

import "fmt"
import "time"

import "github.com/sirupsen/logrus"

import "cache"
import "defs"
import "portio"
import "stats"

const ata_debug = false

func dbg(x string, args ...interface{}) {
	if ata_debug {
		fmt.Printf(x, args...)
	}
}

// sized for future controller enumeration; one controller pair is
// probed in this driver
const ndevices = 32

/// Atastat_t counts driver events.
type Atastat_t struct {
	Nread    stats.Counter_t
	Nwrite   stats.Counter_t
	Nfail    stats.Counter_t
	Nintr    stats.Counter_t
	Nerrpoll stats.Counter_t
	Ntimeout stats.Counter_t
}

/// Ata_t is the driver facade consumed by the block layer. One instance
/// owns the device registry and the record pool; the port I/O primitive
/// and logger are injected.
type Ata_t struct {
	pio  portio.Portio_i
	log  *logrus.Logger
	devs registry_t
	pool *cache.Cache_t[Device_t]
	stat Atastat_t

	// Waitmax bounds a single ready wait; Polltick is the status poll
	// cadence while blocked. Set before Init.
	Waitmax  time.Duration
	Polltick time.Duration
}

/// MkAta creates a driver instance over the given port I/O primitive.
/// A nil log falls back to the process-wide logger.
func MkAta(pio portio.Portio_i, log *logrus.Logger) *Ata_t {
	if pio == nil {
		panic("ata: nil port io")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	a := &Ata_t{}
	a.pio = pio
	a.log = log
	a.pool = cache.MkCache[Device_t]("ata_devices", ndevices)
	a.Waitmax = 10 * time.Second
	a.Polltick = 100 * time.Microsecond
	return a
}

/// Init brings up the primary controller. The failure is logged and
/// also returned; boot paths that treat disk bring-up as best effort
/// may ignore it.
func (a *Ata_t) Init() defs.Err_t {
	_, err := a.Init_device(ATA_PRIMARY_BUS, ATA_PRIMARY_CTRL)
	if err != 0 {
		a.log.Warnf("ata: primary controller bring-up failed: %v", err)
	}
	return err
}

/// Init_device registers the master disk on the controller at the given
/// command/control base pair. On any bring-up failure the candidate
/// record is returned to the pool and nothing is registered.
func (a *Ata_t) Init_device(bus, ctrl uint16) (*Device_t, defs.Err_t) {
	dev, ok := a.pool.Alloc()
	if !ok {
		return nil, -defs.ENOMEM
	}
	dev.bus = bus
	dev.ctrl = ctrl
	dev.irqc = make(chan bool, 1)

	dev.Lock()
	if a.floating(dev) {
		dev.Unlock()
		a.log.Warnf("ata: floating bus at %#x", bus)
		a.pool.Free(dev)
		return nil, -defs.ENODEV
	}
	id, err := a.identify(dev, false)
	dev.Unlock()
	if err != 0 {
		a.log.Warnf("ata: identify failed at %#x: %v", bus, err)
		a.pool.Free(dev)
		return nil, err
	}

	dev.nsectors = uint64(id.lba28_sectors)
	dev.lba48 = id.lba48
	dev.model = id.model
	a.devs.insert(dev)

	a.log.Infof("ata: disk at %#x: %s, %v sectors (%s)", bus, dev.model,
		dev.nsectors, human(dev.nsectors*Sector_size))
	if dev.lba48 {
		a.log.Infof("ata: disk at %#x supports LBA48 (%v sectors); using LBA28 only",
			bus, id.lba48_sectors)
	}
	return dev, 0
}

/// Devices returns the most recently registered device; walk Next for
/// the rest. Used by iteration-based consumers such as error polling.
func (a *Ata_t) Devices() *Device_t {
	return a.devs.front()
}

// xferok rejects the requests the hardware field widths cannot express
// before any register is touched.
func xferok(d *Device_t, buf []uint8, lba uint64, sectors int) defs.Err_t {
	if d == nil || buf == nil {
		return -defs.EINVAL
	}
	if sectors <= 0 || sectors > Maxsectors {
		return -defs.EINVAL
	}
	if lba >= lba28_max || lba+uint64(sectors) > lba28_max {
		return -defs.EINVAL
	}
	if len(buf) < sectors*Sector_size {
		return -defs.EINVAL
	}
	return 0
}

/// Read fills buf with sectors sectors starting at lba. On failure the
/// buffer contents beyond already-transferred sectors are undefined.
func (a *Ata_t) Read(d *Device_t, slave bool, lba uint64, buf []uint8, sectors int) defs.Err_t {
	if err := xferok(d, buf, lba, sectors); err != 0 {
		a.stat.Nfail.Inc()
		return err
	}
	a.stat.Nread.Inc()
	dbg("ata read: lba %v sectors %v\n", lba, sectors)
	err := a.readsectors(d, slave, lba, buf, sectors)
	if err != 0 {
		a.stat.Nfail.Inc()
	}
	return err
}

/// Write transfers sectors sectors from buf starting at lba, then
/// flushes the drive cache. A mid-transfer failure leaves a prefix of
/// the sectors on disk; there is no rollback.
func (a *Ata_t) Write(d *Device_t, slave bool, lba uint64, buf []uint8, sectors int) defs.Err_t {
	if err := xferok(d, buf, lba, sectors); err != 0 {
		a.stat.Nfail.Inc()
		return err
	}
	a.stat.Nwrite.Inc()
	dbg("ata write: lba %v sectors %v\n", lba, sectors)
	err := a.writesectors(d, slave, lba, buf, sectors)
	if err != 0 {
		a.stat.Nfail.Inc()
	}
	return err
}

/// Stats renders and resets the driver counters.
func (a *Ata_t) Stats() string {
	s := "ata:" + stats.Stats2String(a.stat)
	a.stat = Atastat_t{}
	return s
}

func human(_bytes uint64) string {
	bytes := float64(_bytes)
	div := float64(1)
	order := 0
	for bytes/div > 1024 {
		div *= 1024
		order++
	}
	sufs := map[int]string{0: "B", 1: "kB", 2: "MB", 3: "GB", 4: "TB",
		5: "PB"}
	return fmt.Sprintf("%.2f%s", bytes/div, sufs[order])
}
