package gpu

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

var (
	ErrNotUploaded = errors.New("gpu: mirror has no device texture yet")
	ErrDiverged    = errors.New("gpu: device texture diverged from host field")
	ErrSizeChanged = errors.New("gpu: field size differs from device texture")
)

// Device owns one Size^3 single-channel 3D texture.
type Device interface {
	UploadFull(cells []uint8, size int) error
	UploadCell(x, y, z int, v uint8) error
	Release()
}

// Reader is implemented by devices that can copy their texture back to the host.
type Reader interface {
	ReadCell(x, y, z int) (uint8, error)
	ReadAll() ([]uint8, error)
}

type Snapshotter interface {
	Snapshot() []uint8
	Extent() int
}

type CellReader interface {
	GetVoxel(x, y, z int) uint8
	InBounds(x, y, z int) bool
}

// EditCommand represents a single texel write waiting for the next flush.
type EditCommand struct {
	Position [3]int32
	Value    uint8
}

type MirrorOptions struct {
	// Queue bound; reaching it flushes immediately.
	MaxEditsPerFrame int
}

func DefaultMirrorOptions() MirrorOptions {
	return MirrorOptions{MaxEditsPerFrame: 4096}
}

type MirrorStats struct {
	FullUploads int
	CellUploads int
	Flushes     int
	Coalesced   int
}

// Mirror keeps a device texture equal to a host field. All writes happen on
// the simulation thread.
type Mirror struct {
	Device Device

	PendingEdits     []EditCommand
	MaxEditsPerFrame int
	Stats            MirrorStats

	size     int
	uploaded bool
	pending  map[[3]int32]int
}

func NewMirror(dev Device, opts MirrorOptions) *Mirror {
	if opts.MaxEditsPerFrame <= 0 {
		opts.MaxEditsPerFrame = DefaultMirrorOptions().MaxEditsPerFrame
	}
	return &Mirror{
		Device:           dev,
		PendingEdits:     make([]EditCommand, 0, opts.MaxEditsPerFrame),
		MaxEditsPerFrame: opts.MaxEditsPerFrame,
		pending:          make(map[[3]int32]int, opts.MaxEditsPerFrame),
	}
}

func (m *Mirror) Size() int      { return m.size }
func (m *Mirror) Uploaded() bool { return m.uploaded }

// UploadFull creates the device texture from a snapshot of the field.
// Pending edits are dropped since the snapshot already contains them.
func (m *Mirror) UploadFull(f Snapshotter) error {
	size := f.Extent()
	if err := m.Device.UploadFull(f.Snapshot(), size); err != nil {
		return fmt.Errorf("upload %d^3 field: %w", size, err)
	}
	m.size = size
	m.uploaded = true
	m.clearPending()
	m.Stats.FullUploads++
	return nil
}

// UploadCell writes a single texel right away. A queued edit for the same
// cell is dropped so a later Flush cannot overwrite the newer value.
func (m *Mirror) UploadCell(x, y, z int, v uint8) error {
	if !m.uploaded {
		return ErrNotUploaded
	}
	if !m.inBounds(x, y, z) {
		return nil
	}
	if err := m.Device.UploadCell(x, y, z, v); err != nil {
		return fmt.Errorf("upload cell (%d,%d,%d): %w", x, y, z, err)
	}
	m.Stats.CellUploads++
	m.dropPending([3]int32{int32(x), int32(y), int32(z)})
	return nil
}

// SyncCell queues the current host value of (x,y,z). It must be called
// after the field mutation so the device sees the post-edit value.
func (m *Mirror) SyncCell(f CellReader, x, y, z int) error {
	if !f.InBounds(x, y, z) {
		return nil
	}
	return m.QueueCell(x, y, z, f.GetVoxel(x, y, z))
}

func (m *Mirror) inBounds(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < m.size && y < m.size && z < m.size
}

// Verify compares the device contents with the field. Devices that cannot
// read back always pass.
func (m *Mirror) Verify(f Snapshotter) error {
	r, ok := m.Device.(Reader)
	if !ok {
		return nil
	}
	if !m.uploaded {
		return ErrNotUploaded
	}
	if f.Extent() != m.size {
		return fmt.Errorf("%w: host %d device %d", ErrSizeChanged, f.Extent(), m.size)
	}
	host := f.Snapshot()
	dev, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("read back device texture: %w", err)
	}
	if len(dev) == len(host) && xxhash.Sum64(dev) == xxhash.Sum64(host) {
		return nil
	}
	for i := range host {
		if i >= len(dev) || dev[i] != host[i] {
			var got uint8
			if i < len(dev) {
				got = dev[i]
			}
			x, y, z := i%m.size, (i/m.size)%m.size, i/(m.size*m.size)
			return fmt.Errorf("%w at (%d,%d,%d): host %d device %d", ErrDiverged, x, y, z, host[i], got)
		}
	}
	return fmt.Errorf("%w: device has %d extra texels", ErrDiverged, len(dev)-len(host))
}

func (m *Mirror) Release() {
	if m.Device != nil {
		m.Device.Release()
	}
	m.uploaded = false
	m.clearPending()
}
