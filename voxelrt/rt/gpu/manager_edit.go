package gpu

import "fmt"

// ============== DIRTY CELL QUEUE ==============

// QueueCell records a texel write for the next Flush. A repeated write to the
// same cell replaces the queued value.
func (m *Mirror) QueueCell(x, y, z int, val uint8) error {
	if !m.uploaded {
		return ErrNotUploaded
	}
	if !m.inBounds(x, y, z) {
		return nil
	}
	key := [3]int32{int32(x), int32(y), int32(z)}
	if i, ok := m.pending[key]; ok {
		m.PendingEdits[i].Value = val
		m.Stats.Coalesced++
		return nil
	}
	m.pending[key] = len(m.PendingEdits)
	m.PendingEdits = append(m.PendingEdits, EditCommand{Position: key, Value: val})

	// Auto-flush if we reach max edits per frame
	if len(m.PendingEdits) >= m.MaxEditsPerFrame {
		return m.Flush()
	}
	return nil
}

// Flush writes all pending edits to the device in queue order. On failure
// the failed edit and everything after it stay queued.
func (m *Mirror) Flush() error {
	if len(m.PendingEdits) == 0 {
		return nil
	}
	m.Stats.Flushes++

	for i, cmd := range m.PendingEdits {
		x, y, z := int(cmd.Position[0]), int(cmd.Position[1]), int(cmd.Position[2])
		if err := m.Device.UploadCell(x, y, z, cmd.Value); err != nil {
			m.requeue(m.PendingEdits[i:])
			return fmt.Errorf("flush cell (%d,%d,%d): %w", x, y, z, err)
		}
		m.Stats.CellUploads++
	}
	m.clearPending()
	return nil
}

func (m *Mirror) Pending() int {
	return len(m.PendingEdits)
}

func (m *Mirror) requeue(rest []EditCommand) {
	kept := make([]EditCommand, len(rest))
	copy(kept, rest)
	m.clearPending()
	for _, cmd := range kept {
		m.pending[cmd.Position] = len(m.PendingEdits)
		m.PendingEdits = append(m.PendingEdits, cmd)
	}
}

// dropPending removes the queued edit for key, if any, keeping queue order.
func (m *Mirror) dropPending(key [3]int32) {
	i, ok := m.pending[key]
	if !ok {
		return
	}
	rest := make([]EditCommand, 0, len(m.PendingEdits)-1)
	rest = append(rest, m.PendingEdits[:i]...)
	rest = append(rest, m.PendingEdits[i+1:]...)
	m.requeue(rest)
}

func (m *Mirror) clearPending() {
	m.PendingEdits = m.PendingEdits[:0]
	clear(m.pending)
}
