package card

import (
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// FormFieldControlXPath matches the select controls of the collection
// modal. The first one lists the card variants, the second one the
// languages.
const FormFieldControlXPath = `//div[@class='form-field']/select`

var (
	formFieldControlXPath *xpath.Expr
	optionLabelXPath      *xpath.Expr
)

func init() {
	formFieldControlXPath = xpath.MustCompile(FormFieldControlXPath)
	optionLabelXPath = xpath.MustCompile(`option/text()`)
}

// ExtractDynamic reads the variant and language lists from a snapshot of
// a card page taken after the collection modal was opened.
// Missing controls leave the corresponding list empty.
func ExtractDynamic(doc *html.Node) DynamicFields {
	var fields DynamicFields

	if doc == nil {
		return fields
	}

	controls := htmlquery.QuerySelectorAll(doc, formFieldControlXPath)
	if len(controls) > 0 {
		fields.Variants = optionLabels(controls[0])
	}
	if len(controls) > 1 {
		fields.Languages = optionLabels(controls[1])
	}

	return fields
}

func optionLabels(control *html.Node) List {
	labels := allValues(control, optionLabelXPath)
	if len(labels) == 0 {
		return nil
	}
	return labels
}
