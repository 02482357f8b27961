package card

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// lookup returns the trimmed value of the first node matching expr under
// top. The second return value is false when nothing matched.
func lookup(top *html.Node, expr *xpath.Expr) (string, bool) {
	if top == nil {
		return "", false
	}
	node := htmlquery.QuerySelector(top, expr)
	if node == nil {
		return "", false
	}
	return strings.TrimSpace(htmlquery.InnerText(node)), true
}

// firstValue is lookup without the presence flag.
func firstValue(top *html.Node, expr *xpath.Expr) string {
	value, _ := lookup(top, expr)
	return value
}

// allValues returns the trimmed value of every node matching expr under
// top, in document order.
func allValues(top *html.Node, expr *xpath.Expr) []string {
	if top == nil {
		return nil
	}
	nodes := htmlquery.QuerySelectorAll(top, expr)
	values := make([]string, 0, len(nodes))
	for _, node := range nodes {
		values = append(values, strings.TrimSpace(htmlquery.InnerText(node)))
	}
	return values
}

// scoped returns the first node matching expr under top, or nil.
func scoped(top *html.Node, expr *xpath.Expr) *html.Node {
	if top == nil {
		return nil
	}
	return htmlquery.QuerySelector(top, expr)
}

// count returns the number of nodes matching expr under top.
func count(top *html.Node, expr *xpath.Expr) int {
	if top == nil {
		return 0
	}
	return len(htmlquery.QuerySelectorAll(top, expr))
}
