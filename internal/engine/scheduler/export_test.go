package scheduler

// GetPageStatusMap returns a copy of the internal page status map.
// This is exported for testing purposes only.
func (s *Scheduler) GetPageStatusMap() map[string]PageStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statusMap := make(map[string]PageStatus, len(s.pageStatus))
	for k, v := range s.pageStatus {
		statusMap[k] = v
	}
	return statusMap
}
