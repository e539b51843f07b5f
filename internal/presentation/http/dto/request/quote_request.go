package request

// SetClientNameRequest sets the quote's client display name
type SetClientNameRequest struct {
	Name string `json:"name"`
}

// AddServiceLineRequest adds a delivery tier line to the quote
type AddServiceLineRequest struct {
	Service  string  `json:"service" binding:"required"`
	WeightKg float64 `json:"weight_kg" binding:"required"`
}

// AddSurchargeRequest adds a fixed surcharge line by catalog key
type AddSurchargeRequest struct {
	Key string `json:"key" binding:"required"`
}

// AddAdditionalRequest adds an ad-hoc service line. Price and quantity
// arrive as raw strings and are coerced leniently.
type AddAdditionalRequest struct {
	Concept  string `json:"concept" binding:"required"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// UpdateLineRequest patches a quote line. Absent fields leave the line
// untouched; present fields are coerced leniently.
type UpdateLineRequest struct {
	Description *string `json:"description"`
	Price       *string `json:"price"`
	Quantity    *string `json:"quantity"`
}

// SetAdjustmentRequest sets the manual correction line
type SetAdjustmentRequest struct {
	Label  string `json:"label"`
	Amount string `json:"amount" binding:"required"`
}

// DispatchRequest triggers the quote notification send
type DispatchRequest struct {
	ClientEmail string `json:"client_email" binding:"required,email"`
}
