package domain

// EnquiryStatus tracks how far an RFQ has progressed through the sales
// workflow.
type EnquiryStatus string

const (
	EnquiryStatusPending   EnquiryStatus = "Pending"
	EnquiryStatusContacted EnquiryStatus = "Contacted"
	EnquiryStatusQuoted    EnquiryStatus = "Quoted"
	EnquiryStatusClosed    EnquiryStatus = "Closed"
)

// EnquiryStatuses lists the accepted workflow states.
var EnquiryStatuses = []EnquiryStatus{
	EnquiryStatusPending,
	EnquiryStatusContacted,
	EnquiryStatusQuoted,
	EnquiryStatusClosed,
}

// ValidEnquiryStatus reports whether s is a declared workflow state.
func ValidEnquiryStatus(s string) bool {
	for _, status := range EnquiryStatuses {
		if string(status) == s {
			return true
		}
	}
	return false
}

// EnquiryItem is one requested product line on an RFQ. The product fields are
// client-supplied strings and are not checked against the products collection.
type EnquiryItem struct {
	ProductID    string `json:"productId"`
	ProductTitle string `json:"productTitle"`
	Quantity     int    `json:"quantity"`
}
