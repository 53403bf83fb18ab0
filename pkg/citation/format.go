package citation

import (
	"fmt"
	"math"
	"strconv"

	"rag-console/internal/constant"
	"rag-console/internal/entity"
)

// Label renders the display name for a citation: preferred title, then
// source, joined with the page suffix by a middle dot.
func Label(c entity.Citation) string {
	name := c.Title
	if name == "" {
		name = c.Source
	}
	if name == "" {
		name = constant.MsgUnknownSource
	}
	if c.Page != nil {
		return fmt.Sprintf("%s·P.%d", name, *c.Page)
	}
	return name
}

// FormatScore renders a relevance score as a percentage rounded to one
// tenth of a percent. Rounding happens before scaling so values like
// 0.873 display as "87.3%", not "87.30000000000001%".
func FormatScore(score float64) string {
	rounded := math.Round(score*1000) / 10
	return strconv.FormatFloat(rounded, 'f', -1, 64) + "%"
}
