package ata

import "sync"
import "sync/atomic"

/// Device_t represents one disk attached to a legacy ATA controller.
/// The embedded mutex serializes whole command sequences on the port
/// range: the controller has no request tagging, so two interleaved
/// sequences would corrupt its state machine.
type Device_t struct {
	sync.Mutex
	bus  uint16 // command block base; fixed after registration
	ctrl uint16 // control block base; fixed after registration
	next *Device_t

	// armed is 1 while a waiter expects an interrupt. Set only by the
	// waiter that holds the device mutex; cleared by the interrupt and
	// error-poll paths (or by the waiter itself on exit).
	armed int32
	irqc  chan bool

	nsectors uint64
	lba48    bool
	model    string
}

/// Bus returns the command block base address.
func (d *Device_t) Bus() uint16 {
	return d.bus
}

/// Ctrl returns the control block base address.
func (d *Device_t) Ctrl() uint16 {
	return d.ctrl
}

/// Nsectors returns the 28-bit addressable capacity in sectors.
func (d *Device_t) Nsectors() uint64 {
	return d.nsectors
}

/// Lba48 reports whether the disk advertises 48-bit addressing. The
/// driver only transfers through the 28-bit path regardless.
func (d *Device_t) Lba48() bool {
	return d.lba48
}

/// Model returns the model string from the identify payload.
func (d *Device_t) Model() string {
	return d.model
}

/// Next returns the device registered before this one, or nil.
func (d *Device_t) Next() *Device_t {
	return d.next
}

func (d *Device_t) arm() {
	atomic.StoreInt32(&d.armed, 1)
}

func (d *Device_t) disarm() {
	atomic.StoreInt32(&d.armed, 0)
}

func (d *Device_t) isarmed() bool {
	return atomic.LoadInt32(&d.armed) == 1
}

// fire clears the armed flag if set and wakes the waiter. Returns
// whether this call was the one that disarmed the device.
func (d *Device_t) fire() bool {
	if !atomic.CompareAndSwapInt32(&d.armed, 1, 0) {
		return false
	}
	select {
	case d.irqc <- true:
	default:
	}
	return true
}

/// registry_t owns the insertion-ordered list of registered devices.
/// Registration happens during bring-up, before concurrent callers
/// exist; traversal is lock-free thereafter.
type registry_t struct {
	sync.Mutex
	head *Device_t
	n    int
}

func (r *registry_t) insert(d *Device_t) {
	r.Lock()
	defer r.Unlock()
	d.next = r.head
	r.head = d
	r.n++
}

func (r *registry_t) front() *Device_t {
	r.Lock()
	defer r.Unlock()
	return r.head
}

func (r *registry_t) len() int {
	r.Lock()
	defer r.Unlock()
	return r.n
}
