// AngelaMos | 2026
// entity.go

package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Image       []byte          `db:"image"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// Input carries the fields a create or update supplied. Nil means absent.
type Input struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Image       []byte
}

func (in *Input) missing() []string {
	var fields []string
	if in.Name == nil {
		fields = append(fields, "name")
	}
	if in.Description == nil {
		fields = append(fields, "description")
	}
	if in.Price == nil {
		fields = append(fields, "price")
	}
	if len(in.Image) == 0 {
		fields = append(fields, "image")
	}
	return fields
}

func (p *Product) apply(in *Input) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if len(in.Image) > 0 {
		p.Image = in.Image
	}
}
