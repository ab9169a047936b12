package formatter

import (
	"fmt"
	"strings"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/app"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/paging"
)

// RenderPager renders a page window with one-based labels, highlighting the
// current page, e.g. "1 … 10 [11] 12 … 20".
func RenderPager(w paging.Window, current int) string {
	if len(w) == 0 {
		return ""
	}
	parts := make([]string, len(w))
	for i, tok := range w {
		switch {
		case tok.Ellipsis:
			parts[i] = StyleDim.Render("…")
		case tok.Index == current:
			parts[i] = StyleHeader.Render(fmt.Sprintf("[%d]", tok.Index+1))
		default:
			parts[i] = fmt.Sprintf("%d", tok.Index+1)
		}
	}
	return strings.Join(parts, " ")
}

// PageFooter renders "page X of Y" followed by the pager, or nothing for an
// empty listing.
func PageFooter(info app.PageInfo) string {
	if info.Pages == 0 {
		return ""
	}
	return fmt.Sprintf("%s  %s", Dim(fmt.Sprintf("page %d of %d", info.Page+1, info.Pages)), RenderPager(info.Window, info.Page))
}
