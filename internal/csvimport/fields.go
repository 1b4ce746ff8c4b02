package csvimport

// Field is an actual attribute a CSV column can feed.
type Field string

// Import fields, in the priority order used when guessing.
const (
	FieldDescription     Field = "description"
	FieldAmount          Field = "amount"
	FieldDate            Field = "date"
	FieldAccountID       Field = "accountId"
	FieldRef             Field = "ref"
	FieldPayID           Field = "payId"
	FieldStatus          Field = "status"
	FieldNotes           Field = "notes"
	FieldTags            Field = "tags"
	FieldPurchaseOrderID Field = "purchaseOrderId"
)

// Fields lists every import field in guessing priority order.
var Fields = []Field{
	FieldDescription,
	FieldAmount,
	FieldDate,
	FieldAccountID,
	FieldRef,
	FieldPayID,
	FieldStatus,
	FieldNotes,
	FieldTags,
	FieldPurchaseOrderID,
}

// RequiredFields must be mapped before an import can run.
var RequiredFields = []Field{FieldDescription, FieldAmount, FieldDate}

var fieldLabels = map[Field]string{
	FieldDescription:     "Description",
	FieldAmount:          "Amount",
	FieldDate:            "Date",
	FieldAccountID:       "Account",
	FieldRef:             "Reference",
	FieldPayID:           "Pay ID",
	FieldStatus:          "Status",
	FieldNotes:           "Notes",
	FieldTags:            "Tags",
	FieldPurchaseOrderID: "Purchase Order",
}

// Label is the human name of the field.
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// Required reports whether the field must be mapped.
func (f Field) Required() bool {
	for _, r := range RequiredFields {
		if r == f {
			return true
		}
	}
	return false
}

// Valid reports whether f is a known field.
func (f Field) Valid() bool {
	_, ok := fieldLabels[f]
	return ok
}
