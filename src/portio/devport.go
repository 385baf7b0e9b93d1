//go:build linux

package portio

import "fmt"

import "golang.org/x/sys/unix"

/// Devport_t accesses I/O ports through a /dev/port style character
/// device, where the file offset is the port address. Word access is
/// split into two byte cycles by the kernel; QEMU's IDE model tolerates
/// this, real controllers may not.
type Devport_t struct {
	fd   int
	path string
}

/// Mkdevport opens the given port device (normally "/dev/port"). The
/// caller needs CAP_SYS_RAWIO for the real device.
func Mkdevport(path string) (*Devport_t, error) {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("portio: open %s: %w", path, err)
	}
	return &Devport_t{fd: fd, path: path}, nil
}

/// Close releases the port device.
func (d *Devport_t) Close() error {
	return unix.Close(d.fd)
}

func (d *Devport_t) Inb(port uint16) uint8 {
	var b [1]uint8
	n, err := unix.Pread(d.fd, b[:], int64(port))
	if err != nil || n != 1 {
		panic(fmt.Sprintf("portio: inb %#x via %s: %v", port, d.path, err))
	}
	return b[0]
}

func (d *Devport_t) Inw(port uint16) uint16 {
	var b [2]uint8
	n, err := unix.Pread(d.fd, b[:], int64(port))
	if err != nil || n != 2 {
		panic(fmt.Sprintf("portio: inw %#x via %s: %v", port, d.path, err))
	}
	return uint16(b[0]) | uint16(b[1])<<8
}

func (d *Devport_t) Outb(port uint16, v uint8) {
	b := [1]uint8{v}
	n, err := unix.Pwrite(d.fd, b[:], int64(port))
	if err != nil || n != 1 {
		panic(fmt.Sprintf("portio: outb %#x via %s: %v", port, d.path, err))
	}
}

func (d *Devport_t) Outw(port uint16, v uint16) {
	b := [2]uint8{uint8(v), uint8(v >> 8)}
	n, err := unix.Pwrite(d.fd, b[:], int64(port))
	if err != nil || n != 2 {
		panic(fmt.Sprintf("portio: outw %#x via %s: %v", port, d.path, err))
	}
}
