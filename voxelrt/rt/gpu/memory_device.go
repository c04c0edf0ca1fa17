package gpu

import "fmt"

// MemoryDevice is a host-side Device used by tests and headless runs.
type MemoryDevice struct {
	Cells []uint8
	Size  int

	FullUploads int
	CellUploads int
	Released    bool

	// FailUploads makes the next N cell uploads return an error.
	FailUploads int
}

func NewMemoryDevice() *MemoryDevice {
	return &MemoryDevice{}
}

func (d *MemoryDevice) UploadFull(cells []uint8, size int) error {
	if len(cells) != size*size*size {
		return fmt.Errorf("memory device: got %d cells for size %d", len(cells), size)
	}
	d.Cells = make([]uint8, len(cells))
	copy(d.Cells, cells)
	d.Size = size
	d.FullUploads++
	d.Released = false
	return nil
}

func (d *MemoryDevice) UploadCell(x, y, z int, v uint8) error {
	if d.FailUploads > 0 {
		d.FailUploads--
		return fmt.Errorf("memory device: injected failure")
	}
	idx, err := d.index(x, y, z)
	if err != nil {
		return err
	}
	d.Cells[idx] = v
	d.CellUploads++
	return nil
}

func (d *MemoryDevice) ReadCell(x, y, z int) (uint8, error) {
	idx, err := d.index(x, y, z)
	if err != nil {
		return 0, err
	}
	return d.Cells[idx], nil
}

func (d *MemoryDevice) ReadAll() ([]uint8, error) {
	if d.Cells == nil {
		return nil, fmt.Errorf("memory device: no texture")
	}
	out := make([]uint8, len(d.Cells))
	copy(out, d.Cells)
	return out, nil
}

func (d *MemoryDevice) Release() {
	d.Cells = nil
	d.Released = true
}

func (d *MemoryDevice) index(x, y, z int) (int, error) {
	if d.Cells == nil {
		return 0, fmt.Errorf("memory device: no texture")
	}
	s := d.Size
	if x < 0 || y < 0 || z < 0 || x >= s || y >= s || z >= s {
		return 0, fmt.Errorf("memory device: cell (%d,%d,%d) outside %d^3", x, y, z, s)
	}
	return x + y*s + z*s*s, nil
}
