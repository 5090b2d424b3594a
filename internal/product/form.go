// AngelaMos | 2026
// form.go

package product

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/templates/storefront/internal/config"
	"github.com/carterperez-dev/templates/storefront/internal/core"
)

const (
	maxNameLength = 255
	formOverhead  = 1 << 20
)

var maxPrice = decimal.NewFromInt(100_000_000)

// ParsePrice accepts a plain decimal with at most two fractional digits
// that fits NUMERIC(10,2).
func ParsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, core.ValidationError("price must be a decimal number")
	}

	if price.IsNegative() {
		return decimal.Decimal{}, core.ValidationError("price must not be negative")
	}

	if !price.Equal(price.Round(2)) {
		return decimal.Decimal{}, core.ValidationError("price must have at most two decimal places")
	}

	if price.GreaterThanOrEqual(maxPrice) {
		return decimal.Decimal{}, core.ValidationError("price is too large")
	}

	return price, nil
}

func FormatPrice(price decimal.Decimal) string {
	return price.StringFixed(2)
}

// ParseForm reads a multipart product form. Blank fields count as absent,
// a malformed price is always a 400, and an image over the configured
// limit is a 413.
func ParseForm(
	w http.ResponseWriter,
	r *http.Request,
	cfg config.UploadConfig,
) (*Input, error) {
	r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxImageBytes+formOverhead)

	if err := r.ParseMultipartForm(cfg.MaxMemory); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return nil, imageTooLarge(cfg.MaxImageBytes)
		case errors.Is(err, http.ErrNotMultipart):
			return nil, core.ValidationError("expected multipart/form-data")
		default:
			return nil, core.ValidationError("malformed multipart form")
		}
	}

	in := &Input{}

	if name := strings.TrimSpace(r.FormValue("name")); name != "" {
		if len(name) > maxNameLength {
			return nil, core.ValidationError(
				fmt.Sprintf("name must be at most %d characters", maxNameLength),
			)
		}
		in.Name = &name
	}

	if desc := strings.TrimSpace(r.FormValue("description")); desc != "" {
		in.Description = &desc
	}

	if raw := strings.TrimSpace(r.FormValue("price")); raw != "" {
		price, err := ParsePrice(raw)
		if err != nil {
			return nil, err
		}
		in.Price = &price
	}

	image, err := readImage(r, cfg.MaxImageBytes)
	if err != nil {
		return nil, err
	}
	in.Image = image

	return in, nil
}

func readImage(r *http.Request, limit int64) ([]byte, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, core.ValidationError("malformed image upload")
	}
	defer file.Close() //nolint:errcheck // read-only multipart file

	if header.Size > limit {
		return nil, imageTooLarge(limit)
	}

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	if int64(len(data)) > limit {
		return nil, imageTooLarge(limit)
	}

	return data, nil
}

func imageTooLarge(limit int64) error {
	return core.TooLargeError(fmt.Sprintf("image exceeds %d bytes", limit))
}
