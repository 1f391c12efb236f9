package views

import (
	"bytes"
	"html/template"

	treeblood "github.com/wyatt915/goldmark-treeblood"
	"github.com/yuin/goldmark"
)

// EMIFormula is the amortized monthly payment in LaTeX.
const EMIFormula = `EMI = \frac{P \times r \times (1 + r)^n}{(1 + r)^n - 1}`

var (
	md     = goldmark.New()
	mathMD = goldmark.New(goldmark.WithExtensions(treeblood.MathML()))
)

// Markdown converts trusted, embedded markdown to HTML.
func Markdown(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Math renders a LaTeX expression as display MathML.
func Math(latex string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := mathMD.Convert([]byte("$$"+latex+"$$"), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
