// Package recordid allocates output record identifiers for fan-out.
package recordid

import "strconv"

// Allocate returns the outbound record identifier for the item at index
// within a single input record's expansion. The first item keeps the
// original transport identifier so downstream correlation by record id sees
// an unbroken chain; later items get "<originalID>_<index>". Deterministic
// and stateless; callers must pass indices in emission order for batch-wide
// uniqueness.
func Allocate(originalID string, index int) string {
	if index == 0 {
		return originalID
	}
	return originalID + "_" + strconv.Itoa(index)
}
