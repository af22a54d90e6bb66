package domain

// Column names of the record table, in output order.
const (
	ColCustomerOrder  = "Customer_Order"
	ColPurchaseOrder  = "PO#"
	ColOrderDate      = "PO_Date"
	ColAddressType    = "Address_Type"
	ColCustomerName   = "Customer_Name"
	ColStreetAddress  = "Street_Address"
	ColState          = "State"
	ColZipcode        = "Zipcode"
	ColPhone          = "Tel#"
	ColModelNumber    = "Model_Number"
	ColInternetNumber = "Internet_Number"
	ColDescription    = "Item_Description"
	ColQtyShipped     = "Qty_Shipped"
)

// Columns is the fixed record schema shared by every export.
var Columns = []string{
	ColCustomerOrder,
	ColPurchaseOrder,
	ColOrderDate,
	ColAddressType,
	ColCustomerName,
	ColStreetAddress,
	ColState,
	ColZipcode,
	ColPhone,
	ColModelNumber,
	ColInternetNumber,
	ColDescription,
	ColQtyShipped,
}

// FileType represents the accepted upload types.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeJSON FileType = "json"
)

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"json": FileTypeJSON,
}

// RuleType classifies a record rule.
type RuleType string

const (
	RuleTypeAnomaly  RuleType = "anomaly"
	RuleTypeRequired RuleType = "required"
)

// RuleSeverity indicates how a failed rule is reported.
type RuleSeverity string

const (
	SeverityError   RuleSeverity = "error"
	SeverityWarning RuleSeverity = "warning"
)

// ReportSink selects where the anomaly report is delivered.
type ReportSink string

const (
	ReportSinkFile ReportSink = "file"
	ReportSinkS3   ReportSink = "s3"
	ReportSinkBoth ReportSink = "both"
)

// Valid reports whether s is a known sink.
func (s ReportSink) Valid() bool {
	switch s {
	case ReportSinkFile, ReportSinkS3, ReportSinkBoth:
		return true
	}
	return false
}

// ToFile reports whether the sink writes the local report file.
func (s ReportSink) ToFile() bool { return s == ReportSinkFile || s == ReportSinkBoth }

// ToS3 reports whether the sink uploads the report.
func (s ReportSink) ToS3() bool { return s == ReportSinkS3 || s == ReportSinkBoth }
