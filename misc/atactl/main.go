//go:build linux

// Command atactl probes a legacy ATA controller from user space through
// /dev/port and prints what it finds. Wants CAP_SYS_RAWIO; meant for a
// QEMU guest, where split word cycles on the data port are tolerated.
package main

import "encoding/hex"
import "flag"
import "fmt"
import "os"

import "github.com/sirupsen/logrus"

import "ata"
import "portio"

func main() {
	portdev := flag.String("portdev", "/dev/port", "port device to go through")
	secondary := flag.Bool("secondary", false, "probe the secondary controller")
	slave := flag.Bool("slave", false, "probe the slave select")
	dump := flag.Uint64("dump", 0, "LBA of a sector to hexdump")
	flag.Parse()

	log := logrus.New()
	pio, err := portio.Mkdevport(*portdev)
	if err != nil {
		log.Fatal(err)
	}
	defer pio.Close()

	a := ata.MkAta(pio, log)
	bus, ctrl := ata.ATA_PRIMARY_BUS, ata.ATA_PRIMARY_CTRL
	if *secondary {
		bus, ctrl = ata.ATA_SECONDARY_BUS, ata.ATA_SECONDARY_CTRL
	}
	d, aerr := a.Init_device(bus, ctrl)
	if aerr != 0 {
		os.Exit(1)
	}
	fmt.Printf("type: %v\n", a.Get_type(d, *slave))

	if *dump != 0 {
		buf := make([]uint8, ata.Sector_size)
		if aerr := a.Read(d, *slave, *dump, buf, 1); aerr != 0 {
			log.Fatalf("read lba %v: %v", *dump, aerr)
		}
		fmt.Print(hex.Dump(buf))
	}
	fmt.Print(a.Stats())
}
