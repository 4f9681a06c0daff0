package render

// Release detaches and frees the container of one surface. The registry
// and other surfaces are untouched. Unknown ids are ignored.
func (m *Materializer) Release(id SurfaceID) {
	entry, ok := m.surfaces[id]
	if !ok {
		return
	}
	entry.surface.Detach(entry.container)
	entry.container.release()
	delete(m.surfaces, id)
	m.log.WithField("surface", id).Debug("container released")
}

// Dispose detaches every container from its surface, frees all geometry
// and paint, and forgets every surface. Calling it again is a no-op.
func (m *Materializer) Dispose() {
	if len(m.surfaces) == 0 {
		return
	}
	for id := range m.surfaces {
		m.Release(id)
	}
	m.surfaces = make(map[SurfaceID]*surfaceEntry)
	m.log.Info("materializer disposed")
}
