package citation

import (
	"fmt"
	"strconv"

	"rag-console/internal/entity"
)

// StableId derives an order-independent identifier from the citation
// content. Two citations with the same (source, page, snippet) always
// get the same id no matter where they sit in the list, so deep links
// built on it survive re-ordering.
func StableId(c entity.Citation) string {
	key := c.Source
	if c.Page != nil {
		key += "P" + strconv.Itoa(*c.Page)
	}
	key += c.Snippet

	var h uint32
	for _, r := range key {
		h = h*31 + uint32(r)
	}
	return fmt.Sprintf("%08x", h)
}
