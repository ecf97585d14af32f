package domain

// Collision records a key conflict observed while building the canonical
// catalog. The earlier-priority source's record is retained; the collision
// is kept for diagnostics rather than silently dropped.
type Collision struct {
	// Key is the conflicting record key.
	Key string

	// WinnerSourceID is the source whose record was retained.
	WinnerSourceID string

	// LoserSourceID is the source whose record was discarded.
	LoserSourceID string
}

// Catalog is one immutable canonical catalog snapshot. A rebuild produces a
// fresh Catalog which replaces the previous one atomically; readers holding
// an older snapshot keep a consistent view.
type Catalog struct {
	// Records holds the canonical records in source load order.
	Records []*ProductRecord

	// byKey maps record key to record for O(1) lookups.
	byKey map[string]*ProductRecord

	// Collisions lists key conflicts observed during the build.
	Collisions []Collision

	// Skipped counts raw records rejected for missing identifiers.
	Skipped int
}

// NewCatalog creates an empty catalog snapshot.
func NewCatalog() *Catalog {
	return &Catalog{byKey: make(map[string]*ProductRecord)}
}

// Add inserts a record unless its key is already present. When the key is
// taken, the collision is recorded and the existing record wins.
func (c *Catalog) Add(record *ProductRecord) {
	if existing, ok := c.byKey[record.Key]; ok {
		c.Collisions = append(c.Collisions, Collision{
			Key:            record.Key,
			WinnerSourceID: existing.SourceID,
			LoserSourceID:  record.SourceID,
		})
		return
	}
	c.Records = append(c.Records, record)
	c.byKey[record.Key] = record
}

// Get returns the record for a key, or nil when absent.
func (c *Catalog) Get(key string) *ProductRecord {
	return c.byKey[key]
}

// Len returns the number of canonical records.
func (c *Catalog) Len() int {
	return len(c.Records)
}

// Keys returns all record keys in load order.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.Records))
	for i, record := range c.Records {
		keys[i] = record.Key
	}
	return keys
}

// BySource returns the records owned by the given source, in load order.
func (c *Catalog) BySource(sourceID string) []*ProductRecord {
	var records []*ProductRecord
	for _, record := range c.Records {
		if record.SourceID == sourceID {
			records = append(records, record)
		}
	}
	return records
}
