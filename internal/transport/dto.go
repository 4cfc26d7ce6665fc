package transport

// CartItemRequest is one line of an add or bulk replace payload. Optional
// fields are pointers so an absent value can be told apart from zero.
type CartItemRequest struct {
	DishName string   `json:"dish_name" validate:"required"`
	Qty      *int     `json:"qty,omitempty" validate:"omitempty,gte=1"`
	Price    *float64 `json:"price,omitempty"`
	Image    *string  `json:"image,omitempty"`
}

type RemoveRequest struct {
	DishName string `json:"dish_name" validate:"required"`
}

type CartItemResponse struct {
	DishName string  `json:"dish_name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Qty      int     `json:"qty"`
}

type CartSummaryResponse struct {
	TotalItems int    `json:"total_items"`
	TotalPrice string `json:"total_price"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ProfileUpdateRequest mirrors the edit-profile form. Empty strings count as absent.
type ProfileUpdateRequest struct {
	FullName   *string `json:"fullName,omitempty"`
	Passport   *string `json:"passport,omitempty" validate:"omitempty,len=10"`
	CardNumber *string `json:"cardNumber,omitempty"`
	Password   *string `json:"password,omitempty"`
	Login      *string `json:"login,omitempty" validate:"omitempty,max=50"`
}

type ProfileUpdateResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	LoginChanged bool   `json:"loginChanged"`
	Redirect     string `json:"redirect,omitempty"`
}

type ProfileView struct {
	FullName   string `json:"full_name"`
	Passport   string `json:"passport"`
	CardNumber string `json:"card_number"`
	Login      string `json:"login"`
}

type RegisterRequest struct {
	Login      string `json:"login" form:"login" validate:"required,max=50"`
	Password   string `json:"password" form:"password" validate:"required"`
	FullName   string `json:"full_name" form:"full_name" validate:"required"`
	Passport   string `json:"passport" form:"passport" validate:"required,len=10"`
	CardNumber string `json:"bank_card" form:"bank_card" validate:"required"`
}

type RegisterResponse struct {
	Login string `json:"login"`
}

type LoginRequest struct {
	Login    string `json:"login" form:"login" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type LoginResponse struct {
	Login   string `json:"login"`
	IsAdmin bool   `json:"is_admin"`
}

type MenuItemResponse struct {
	MenuID      uint    `json:"menu_id"`
	DishName    string  `json:"dish_name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Ingredients string  `json:"ingredients"`
}

type MenuSearchResponse struct {
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Size  int                `json:"size"`
	Pages int                `json:"pages"`
	Items []MenuItemResponse `json:"items"`
}

// Empty reports whether no field was supplied at all.
func (r *ProfileUpdateRequest) Empty() bool {
	return r == nil || (r.FullName == nil && r.Passport == nil && r.CardNumber == nil && r.Password == nil && r.Login == nil)
}
