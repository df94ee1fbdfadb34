package model

const (
	AuthActionLogin    = "login"
	AuthActionRegister = "register"
)

type AuthRequest struct {
	Action     string `json:"action"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name,omitempty"`
	RememberMe bool   `json:"rememberMe,omitempty"`
}

type ProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

type CartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CheckoutRequest struct {
	Items           []CheckoutItem `json:"items"`
	ShippingAddress string         `json:"shippingAddress"`
	PaymentMethod   string         `json:"paymentMethod"`
}

type CheckoutItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type OrderStatusRequest struct {
	Status string `json:"status"`
}

type ReviewRequest struct {
	ProductID string `json:"productId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}
