package dto

// EnquiryItemRequest one requested product line.
type EnquiryItemRequest struct {
	ProductID    string `json:"productId"`
	ProductTitle string `json:"productTitle"`
	Quantity     int    `json:"quantity"`
}

// SubmitEnquiryRequest public RFQ payload.
type SubmitEnquiryRequest struct {
	Name    string               `json:"name"`
	Email   string               `json:"email"`
	Phone   string               `json:"phone"`
	Company string               `json:"company"`
	Message string               `json:"message"`
	Items   []EnquiryItemRequest `json:"items"`
}

// UpdateEnquiryStatusRequest admin workflow transition.
type UpdateEnquiryStatusRequest struct {
	Status string `json:"status"`
}
