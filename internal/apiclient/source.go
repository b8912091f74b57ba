package apiclient

import (
	"context"
	"strconv"
	"time"

	"github.com/multivend/marketd/internal/domain"
	"github.com/multivend/marketd/pkg/listview"
)

// ProductRow adapts a product to the listview resource shape.
type ProductRow struct {
	domain.Product
}

func (r ProductRow) GetID() int64 { return r.ID }

// SearchText is the live-search haystack: the name plus the record id,
// nothing else.
func (r ProductRow) SearchText() string     { return r.Name + " " + strconv.FormatInt(r.ID, 10) }
func (r ProductRow) CreatedTime() time.Time { return r.CreatedAt }

// DraftFields seeds an edit wizard with the current record so a partial
// draft resubmits the untouched fields unchanged.
func (r ProductRow) DraftFields() map[string]interface{} {
	fields := map[string]interface{}{
		"name":           r.Name,
		"category_id":    r.CategoryID,
		"tags":           r.Tags,
		"description":    r.Description,
		"original_price": r.OriginalPrice,
		"discount_price": r.DiscountPrice,
		"sizes":          r.Sizes,
		"colors":         r.Colors,
		"status":         r.Status,
	}
	if r.Stock != nil {
		fields["stock"] = *r.Stock
	}
	if r.TransportationType != nil {
		fields["transportation_type"] = *r.TransportationType
	}
	return fields
}

// ShopProductSource drives a seller's product list view through the API.
type ShopProductSource struct {
	Client *Client
}

var _ listview.Source[ProductRow] = (*ShopProductSource)(nil)

// FetchAll pages through the whole collection; the list view owns
// filtering and windowing locally.
func (s *ShopProductSource) FetchAll(ctx context.Context) ([]ProductRow, error) {
	var out []ProductRow
	for page := 1; ; page++ {
		chunk, err := s.Client.ShopProducts(ctx, ListQuery{Page: page, PerPage: 100})
		if err != nil {
			return nil, err
		}
		for _, p := range chunk.Items {
			out = append(out, ProductRow{Product: p})
		}
		if len(out) >= int(chunk.Total) || len(chunk.Items) == 0 {
			return out, nil
		}
	}
}

func (s *ShopProductSource) Delete(ctx context.Context, id int64) error {
	return s.Client.ShopDeleteProduct(ctx, id)
}

// Update handles the inline mutations the table offers; only stock today.
func (s *ShopProductSource) Update(ctx context.Context, id int64, patch map[string]interface{}) (ProductRow, error) {
	var payload struct {
		Stock int `mapstructure:"stock"`
	}
	if err := listview.DecodeDraft(patch, &payload); err != nil {
		return ProductRow{}, &Error{Kind: KindValidation, Message: err.Error()}
	}
	p, err := s.Client.ShopUpdateStock(ctx, id, payload.Stock)
	if err != nil {
		return ProductRow{}, err
	}
	return ProductRow{Product: *p}, nil
}

// Submit sends a finished edit-wizard draft; id 0 creates a new product.
func (s *ShopProductSource) Submit(ctx context.Context, id int64, draft map[string]interface{}) (ProductRow, error) {
	var payload ProductDraft
	if err := listview.DecodeDraft(draft, &payload); err != nil {
		return ProductRow{}, &Error{Kind: KindValidation, Message: err.Error()}
	}
	if paths, ok := draft["image_paths"].([]string); ok {
		payload.ImagePaths = paths
	}

	var (
		p   *domain.Product
		err error
	)
	if id == 0 {
		p, err = s.Client.ShopCreateProduct(ctx, &payload)
	} else {
		p, err = s.Client.ShopUpdateProduct(ctx, id, &payload)
	}
	if err != nil {
		return ProductRow{}, err
	}
	return ProductRow{Product: *p}, nil
}
