package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/guonaihong/gout"

	"github.com/multivend/marketd/internal/domain"
)

// ProductDraft is the wizard's accumulated form state, submitted as one
// multipart request. ImagePaths are local files uploaded alongside the
// fields.
type ProductDraft struct {
	Name               string  `mapstructure:"name"`
	CategoryID         int64   `mapstructure:"category_id"`
	Tags               string  `mapstructure:"tags"`
	Description        string  `mapstructure:"description"`
	OriginalPrice      float64 `mapstructure:"original_price"`
	DiscountPrice      float64 `mapstructure:"discount_price"`
	Stock              *int    `mapstructure:"stock"`
	Sizes              string  `mapstructure:"sizes"`
	Colors             string  `mapstructure:"colors"`
	Status             string  `mapstructure:"status"`
	TransportationType string  `mapstructure:"transportation_type"`

	ImagePaths []string `mapstructure:"-"`
}

// form flattens the draft to key/value pairs; the pair form keeps the
// repeated "images" keys multipart needs.
func (d *ProductDraft) form() []interface{} {
	pairs := []interface{}{
		"name", d.Name,
		"category_id", strconv.FormatInt(d.CategoryID, 10),
		"tags", d.Tags,
		"description", d.Description,
		"original_price", strconv.FormatFloat(d.OriginalPrice, 'f', -1, 64),
		"discount_price", strconv.FormatFloat(d.DiscountPrice, 'f', -1, 64),
		"sizes", d.Sizes,
		"colors", d.Colors,
	}
	if d.Stock != nil {
		pairs = append(pairs, "stock", strconv.Itoa(*d.Stock))
	}
	if d.Status != "" {
		pairs = append(pairs, "status", d.Status)
	}
	if d.TransportationType != "" {
		pairs = append(pairs, "transportation_type", d.TransportationType)
	}
	for _, p := range d.ImagePaths {
		pairs = append(pairs, "images", gout.FormFile(p))
	}
	return pairs
}

// submitForm posts or puts a multipart form and decodes the data envelope.
func (c *Client) submitForm(ctx context.Context, method, path string, form []interface{}, out interface{}) error {
	var (
		status int
		body   []byte
	)
	df := gout.POST(c.BaseURL + path)
	if method == http.MethodPut {
		df = gout.PUT(c.BaseURL + path)
	}
	err := df.SetHeader(c.headers()).
		SetForm(form).
		SetTimeout(c.Timeout).
		WithContext(ctx).
		BindBody(&body).Code(&status).Do()
	if err != nil {
		return &Error{Kind: KindNetwork, Message: err.Error()}
	}
	return c.decode(status, body, out, false)
}

func (c *Client) ShopProducts(ctx context.Context, q ListQuery) (*Page[domain.Product], error) {
	return getPage[domain.Product](ctx, c, "/api/v1/shop/products", q.values())
}

// ShopCreateProduct submits a completed wizard draft as a new product.
func (c *Client) ShopCreateProduct(ctx context.Context, draft *ProductDraft) (*domain.Product, error) {
	var out domain.Product
	if err := c.submitForm(ctx, http.MethodPost, "/api/v1/shop/products", draft.form(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ShopUpdateProduct submits a completed wizard draft over an existing
// product.
func (c *Client) ShopUpdateProduct(ctx context.Context, id int64, draft *ProductDraft) (*domain.Product, error) {
	var out domain.Product
	path := fmt.Sprintf("/api/v1/shop/products/%d", id)
	if err := c.submitForm(ctx, http.MethodPut, path, draft.form(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ShopUpdateStock(ctx context.Context, id int64, stock int) (*domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/shop/products/%d/stock", id),
		nil, map[string]int{"stock": stock}, &out, false)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ShopDeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/shop/products/%d", id), nil, nil, nil, false)
}

func (c *Client) ShopOrders(ctx context.Context, q ListQuery) (*Page[domain.Order], error) {
	return getPage[domain.Order](ctx, c, "/api/v1/shop/orders", q.values())
}

// ShopAdvanceOrder moves an order to the next lifecycle status.
func (c *Client) ShopAdvanceOrder(ctx context.Context, id int64, status string) (*domain.Order, error) {
	var out domain.Order
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/shop/orders/%d/status", id),
		nil, map[string]string{"status": status}, &out, false)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
