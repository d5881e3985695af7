package cache

// Change-event tags as emitted by the relational store.
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// MergePolicy reconciles one change event into a collection. newRec
// carries the row payload for INSERT/UPDATE, oldRec for UPDATE/DELETE;
// either may be nil when the feed omitted it.
//
// The policy is isolated here so an alternative can be substituted
// without touching call sites.
type MergePolicy[T Record] func(c *Collection[T], eventType string, newRec, oldRec *T)

// FaithfulMerge applies events exactly as the feed delivers them:
// INSERT prepends unconditionally, with no de-duplication against a
// record already present from a local write-through. The echo of one's
// own insert can therefore land twice; callers opting out of that race
// use DedupMerge instead.
func FaithfulMerge[T Record](c *Collection[T], eventType string, newRec, oldRec *T) {
	switch eventType {
	case EventInsert:
		if newRec != nil {
			c.Prepend(*newRec)
		}
	case EventUpdate:
		if newRec != nil {
			c.ReplaceByID(*newRec) // no-op if absent
		}
	case EventDelete:
		if oldRec != nil {
			c.RemoveByID((*oldRec).RecordID()) // no-op if absent
		}
	}
	// any other tag is ignored
}

// DedupMerge is the merge-by-id-replace-if-present alternative: an
// INSERT whose id is already held replaces the existing record instead
// of duplicating it. UPDATE and DELETE behave as in FaithfulMerge.
func DedupMerge[T Record](c *Collection[T], eventType string, newRec, oldRec *T) {
	if eventType == EventInsert && newRec != nil {
		if c.ReplaceByID(*newRec) {
			return
		}
		c.Prepend(*newRec)
		return
	}
	FaithfulMerge(c, eventType, newRec, oldRec)
}
