package ata

import "time"

import "defs"

// The wait coordinator. A transfer arms the device and then blocks until
// the status register reports ready, the interrupt path disarms it, or
// the wait bound expires. The blocked goroutine sleeps on the notify
// channel between status polls instead of spinning.

// wait_ready returns 0 once the device is ready or an interrupt/error
// poll fired; the caller must inspect the error bit itself. Returns
// -ETIMEDOUT when Waitmax elapses with no progress, which the original
// driver would have turned into an unbounded hang.
func (a *Ata_t) wait_ready(d *Device_t) defs.Err_t {
	d.arm()
	defer d.disarm()

	tmo := time.NewTimer(a.Waitmax)
	defer tmo.Stop()
	tick := time.NewTicker(a.Polltick)
	defer tick.Stop()

	for {
		st := a.pio.Inb(d.bus + reg_status)
		if st&status_bsy == 0 && st&status_rdy != 0 {
			return 0
		}
		if !d.isarmed() {
			// interrupt or error poll fired; the caller's error
			// check observes what happened
			return 0
		}
		select {
		case <-d.irqc:
		case <-tick.C:
		case <-tmo.C:
			a.stat.Ntimeout.Inc()
			return -defs.ETIMEDOUT
		}
	}
}

/// Intr is the interrupt boundary: the platform's dispatcher calls it
/// once per controller interrupt. Delivery is routed to armed devices
/// only; a device that is not waiting cannot own the interrupt.
func (a *Ata_t) Intr() {
	a.stat.Nintr.Inc()
	for d := a.devs.front(); d != nil; d = d.Next() {
		d.fire()
	}
}

/// Err_check recovers waiters whose interrupt was lost: for every armed
/// device whose status register reports an error, the armed flag is
/// cleared so the blocked waiter unblocks and observes the error. An
/// external timer invokes this periodically.
func (a *Ata_t) Err_check() {
	for d := a.devs.front(); d != nil; d = d.Next() {
		if d.isarmed() && a.haserr(d) {
			if d.fire() {
				a.stat.Nerrpoll.Inc()
			}
		}
	}
}
