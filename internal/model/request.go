package model

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ProductRequest struct {
	Name        string `json:"name"`
	Price       *int64 `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

func (r ProductRequest) Input() ProductInput {
	return ProductInput{
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		Image:       r.Image,
	}
}
