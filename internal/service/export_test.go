package service

// HoldPrune marks a history prune as running until release is called, as if
// a cron tick were still walking the collections.
func HoldPrune(h *HistoryService) (release func()) {
	if !h.pruning.begin(pruneJobID) {
		panic("history prune already running")
	}
	return func() { h.pruning.end(pruneJobID) }
}
