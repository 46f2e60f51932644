package led

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// Defaults for a strip on the Raspberry Pi's first SPI bus, chip select 1.
const (
	DefaultPort = "SPI0.1"
	DefaultHz   = 30_000_000
)

// OpenSPI opens the named SPI port (empty for the first available) and
// returns a Strip of the given size on it.
func OpenSPI(port string, hz int64, size int) (*Strip, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	p, err := spireg.Open(port)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", port, err)
	}

	conn, err := p.Connect(physic.Frequency(hz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("connect spi port %q: %w", port, err)
	}

	strip, err := NewStrip(size, conn, p.Close)
	if err != nil {
		p.Close()
		return nil, err
	}
	return strip, nil
}
