package models

import "time"

// PlaceholderImage is served and stored whenever a cart line has no image.
const PlaceholderImage = "https://via.placeholder.com/250x180?text=Image+Error"

type User struct {
	Login          string  `gorm:"primaryKey;size:50"      json:"login"`
	PasswordHash   string  `gorm:"not null"                json:"-"`
	Passport       string  `gorm:"size:10;not null"        json:"passport"`
	LastName       string  `gorm:"size:100;not null"       json:"last_name"`
	FirstName      string  `gorm:"size:100;not null"       json:"first_name"`
	MiddleName     *string `gorm:"size:100"                json:"middle_name,omitempty"`
	BankCardNumber string  `gorm:"size:32;not null"        json:"bank_card_number"`
	Role           string  `gorm:"size:16;not null;default:user" json:"role"`
}

func (User) TableName() string {
	return "visitors"
}

// CartItem is keyed by (user_login, dish_name). user_login references
// visitors.login and follows it on rename and delete.
type CartItem struct {
	UserLogin string  `gorm:"primaryKey;size:50"           json:"-"`
	DishName  string  `gorm:"primaryKey;size:255"          json:"dish_name"`
	Price     float64 `gorm:"not null"                     json:"price"`
	ImageURL  *string `gorm:"size:500"                     json:"-"`
	Qty       int     `gorm:"not null;default:1;check:qty > 0" json:"qty"`

	Owner *User `gorm:"foreignKey:UserLogin;references:Login;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (CartItem) TableName() string {
	return "user_cart"
}

// Image returns the stored image or the placeholder.
func (c CartItem) Image() string {
	if c.ImageURL == nil || *c.ImageURL == "" {
		return PlaceholderImage
	}
	return *c.ImageURL
}

type Menu struct {
	MenuID      uint    `gorm:"primaryKey;autoIncrement"  json:"menu_id"`
	DishName    string  `gorm:"size:255;not null;unique"  json:"dish_name"`
	Description string  `gorm:"size:1000"                 json:"description"`
	Price       float64 `gorm:"not null"                  json:"price"`
	ImageURL    string  `gorm:"size:500"                  json:"image"`
}

func (Menu) TableName() string {
	return "menu"
}

type Ingredient struct {
	IngredientID   uint   `gorm:"primaryKey;autoIncrement" json:"ingredient_id"`
	IngredientName string `gorm:"size:255;not null;unique" json:"ingredient_name"`
}

type Composition struct {
	MenuID       uint `gorm:"primaryKey" json:"menu_id"`
	IngredientID uint `gorm:"primaryKey" json:"ingredient_id"`
}

func (Composition) TableName() string {
	return "composition"
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"            json:"id"`
	JTI       string    `gorm:"size:64;uniqueIndex;not null" json:"jti"`
	TokenHash string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	UserLogin string    `gorm:"size:50;index;not null" json:"user_login"`
	ExpiresAt time.Time `gorm:"not null"              json:"expires_at"`
	Revoked   bool      `gorm:"default:false"         json:"revoked"`
}

// All lists every table for AutoMigrate.
func All() []any {
	return []any{&User{}, &CartItem{}, &Menu{}, &Ingredient{}, &Composition{}, &RefreshToken{}}
}
