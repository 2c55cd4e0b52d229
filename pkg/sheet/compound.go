package sheet

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Layout of an OLE2 compound file with 512-byte sectors, the container of
// legacy xls workbooks.
const (
	oleSectorSize   = 512
	oleSectorShift  = 9
	oleDirEntrySize = 128
	oleHeaderFATs   = 109

	oleEndOfChain = 0xFFFFFFFE
	oleFreeSector = 0xFFFFFFFF

	oleEntryStream = 2
	oleEntryRoot   = 5
)

var le = binary.LittleEndian

// compoundFile is the sector allocation view of an OLE2 container.
type compoundFile struct {
	data    []byte
	sectors uint32
	fat     []uint32
}

// checkCompound validates the sector chains of an OLE2 container before it
// reaches the xls decoder. The decoder terminates the process on a chain
// that leaves its allocation table and loops forever on a cyclic one, so
// those containers must be refused here.
func checkCompound(data []byte) error {
	if len(data) < 2*oleSectorSize {
		return errors.New("xls container is truncated")
	}
	if le.Uint16(data[28:]) != 0xFFFE || le.Uint16(data[30:]) != oleSectorShift {
		return errors.New("unsupported xls container header")
	}

	cf := &compoundFile{
		data:    data,
		sectors: uint32((len(data) - 1) / oleSectorSize),
	}
	if err := cf.loadFAT(); err != nil {
		return err
	}

	dir, err := cf.chain(le.Uint32(data[48:]), cf.fat)
	if err != nil {
		return fmt.Errorf("directory: %w", err)
	}

	miniFAT, err := cf.loadMiniFAT()
	if err != nil {
		return err
	}
	cutoff := le.Uint32(data[56:])

	for _, sid := range dir {
		sector := cf.sector(sid)
		for off := 0; off+oleDirEntrySize <= len(sector); off += oleDirEntrySize {
			entry := sector[off : off+oleDirEntrySize]
			kind := entry[66]
			if kind != oleEntryStream && kind != oleEntryRoot {
				continue
			}
			start, size := le.Uint32(entry[116:]), le.Uint32(entry[120:])
			if size == 0 {
				continue
			}
			table := cf.fat
			if kind == oleEntryStream && size < cutoff {
				table = miniFAT
			}
			if _, err := cf.chain(start, table); err != nil {
				return fmt.Errorf("stream chain: %w", err)
			}
		}
	}
	return nil
}

// loadFAT collects the allocation table from the sectors listed in the
// header and in the extension chain. The decoder walks the extension chain
// whatever the declared table size, so the chain is checked either way.
func (cf *compoundFile) loadFAT() error {
	count := le.Uint32(cf.data[44:])
	if count == 0 || count > cf.sectors {
		return errors.New("xls container has an invalid allocation table size")
	}

	sids := make([]uint32, 0, count)
	for i := 0; i < oleHeaderFATs && uint32(len(sids)) < count; i++ {
		sids = append(sids, le.Uint32(cf.data[76+4*i:]))
	}
	seen := make(map[uint32]bool)
	for next := le.Uint32(cf.data[68:]); next != oleEndOfChain; {
		if next >= cf.sectors || seen[next] {
			return errors.New("xls container has a broken allocation table extension")
		}
		seen[next] = true
		ext := cf.entries(next, oleSectorSize/4)
		for _, sid := range ext[:len(ext)-1] {
			if uint32(len(sids)) < count {
				sids = append(sids, sid)
			}
		}
		next = ext[len(ext)-1]
	}
	if uint32(len(sids)) < count {
		return errors.New("xls container does not list every allocation table sector")
	}

	for _, sid := range sids {
		if sid >= cf.sectors {
			return errors.New("xls container allocation table points outside the file")
		}
		cf.fat = append(cf.fat, cf.entries(sid, oleSectorSize/4)...)
	}
	if uint32(len(cf.fat)) < cf.sectors {
		return errors.New("xls container allocation table does not cover the file")
	}
	return nil
}

// loadMiniFAT reads the short-stream allocation table the way the decoder
// does: the first table sector once per declared sector, 127 entries each.
func (cf *compoundFile) loadMiniFAT() ([]uint32, error) {
	count, start := le.Uint32(cf.data[64:]), le.Uint32(cf.data[60:])
	if count == 0 || start == oleEndOfChain {
		return nil, nil
	}
	if start >= cf.sectors || count > cf.sectors {
		return nil, errors.New("xls container has an invalid short allocation table")
	}
	entries := cf.entries(start, oleSectorSize/4-1)
	table := make([]uint32, 0, int(count)*len(entries))
	for i := uint32(0); i < count; i++ {
		table = append(table, entries...)
	}
	return table, nil
}

// chain follows a sector chain through table, failing on links that leave
// the table or revisit a sector.
func (cf *compoundFile) chain(start uint32, table []uint32) ([]uint32, error) {
	var sids []uint32
	seen := make(map[uint32]bool)
	for sid := start; sid != oleEndOfChain; sid = table[sid] {
		if sid >= uint32(len(table)) {
			return nil, fmt.Errorf("sector %d is out of range", sid)
		}
		if seen[sid] {
			return nil, fmt.Errorf("sector %d is linked twice", sid)
		}
		seen[sid] = true
		sids = append(sids, sid)
	}
	return sids, nil
}

// sector returns the bytes of sector sid, short if the file is truncated.
func (cf *compoundFile) sector(sid uint32) []byte {
	off := (int(sid) + 1) * oleSectorSize
	if off >= len(cf.data) {
		return nil
	}
	return cf.data[off:min(off+oleSectorSize, len(cf.data))]
}

// entries decodes n little-endian sector ids from sector sid, padding a
// truncated sector with free markers.
func (cf *compoundFile) entries(sid uint32, n int) []uint32 {
	sector := cf.sector(sid)
	out := make([]uint32, n)
	for i := range out {
		if 4*i+4 <= len(sector) {
			out[i] = le.Uint32(sector[4*i:])
		} else {
			out[i] = oleFreeSector
		}
	}
	return out
}
