// AngelaMos | 2026
// dto.go

package product

type ProductResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	FormattedPrice string  `json:"formattedPrice"`
	ImageURL       string  `json:"imageUrl"`
}

func ImageURL(id string) string {
	return "/products/" + id + "/image"
}

func ToProductResponse(p *Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price.InexactFloat64(),
		FormattedPrice: FormatPrice(p.Price),
		ImageURL:       ImageURL(p.ID),
	}
}

func ToProductResponseList(products []Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses
}
