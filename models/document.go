package models

// DocumentType is the kind of financial document submitted for OCR.
type DocumentType string

const (
	DocBankStatement DocumentType = "Bank Statement"
	DocInvoice       DocumentType = "Invoice"
	DocPayslip       DocumentType = "Payslip"
	DocProfitAndLoss DocumentType = "Profit and Loss"
)

// DocumentTypes lists the selectable document types in display order.
var DocumentTypes = []DocumentType{DocBankStatement, DocInvoice, DocPayslip, DocProfitAndLoss}

// Document is an uploaded file held in memory for one analysis call.
type Document struct {
	FileName    string
	ContentType string
	Data        []byte
}

// WordCount is one row of the word frequency table.
type WordCount struct {
	Word  string
	Count int
}
