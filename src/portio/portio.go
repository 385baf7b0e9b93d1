// Package portio provides byte and word access to hardware I/O ports.
// Each call is a single port cycle; calls on the same port are never
// reordered relative to each other.
package portio

/// Portio_i abstracts the x86 in/out instructions so drivers can run
/// against real ports or a simulated controller.
type Portio_i interface {
	Inb(port uint16) uint8
	Inw(port uint16) uint16
	Outb(port uint16, v uint8)
	Outw(port uint16, v uint16)
}
