// Package validation checks rendered resumes: PDF page count, text read-back and line lengths.
package validation

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// CountPDFPages counts the pages of an in-memory PDF
func CountPDFPages(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	count, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return 0, &Error{Message: "failed to count PDF pages", Cause: err}
	}
	return count, nil
}

// ExtractPDFText returns the plain text of every page, in page order
func ExtractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &Error{Message: "failed to read PDF", Cause: err}
	}

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", &Error{Message: "failed to extract text from page", Cause: err}
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}
	return text.String(), nil
}
